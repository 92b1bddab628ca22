package fixture

import (
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lmoraes94/verzel-admin/internal/models"
)

type dbUser struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"size:200;not null"`
	Username     string `gorm:"size:30;not null"`
	Email        string `gorm:"size:200;uniqueIndex;not null"`
	Phone        *string
	Role         string `gorm:"size:20;not null;default:User"`
	Avatar       *string
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (dbUser) TableName() string { return "users" }

type dbCar struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Brand     string `gorm:"size:100;not null"`
	Model     string `gorm:"size:100;not null"`
	Price     float64
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (dbCar) TableName() string { return "cars" }

type store struct {
	db *gorm.DB
}

func openStore(path string) (*store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&dbUser{}, &dbCar{}); err != nil {
		return nil, err
	}
	return &store{db: db}, nil
}

// seed creates the default admin and a few cars so a fresh database is
// immediately usable from the TUI.
func (s *store) seed() error {
	var userCount int64
	if err := s.db.Model(&dbUser{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		hash, err := hashPassword("Admin123")
		if err != nil {
			return err
		}
		admin := dbUser{
			Name:         "Administrador",
			Username:     "administrador",
			Email:        "admin@verzel.com.br",
			Role:         string(models.RoleAdmin),
			PasswordHash: hash,
		}
		if err := s.db.Create(&admin).Error; err != nil {
			return err
		}
	}

	var carCount int64
	if err := s.db.Model(&dbCar{}).Count(&carCount).Error; err != nil {
		return err
	}
	if carCount == 0 {
		cars := []dbCar{
			{Name: "Onix", Brand: "Chevrolet", Model: "LTZ", Price: 89990},
			{Name: "Polo", Brand: "Volkswagen", Model: "TSI", Price: 94500},
			{Name: "Corolla", Brand: "Toyota", Model: "XEi", Price: 152990},
		}
		if err := s.db.Create(&cars).Error; err != nil {
			return err
		}
	}
	return nil
}

func (s *store) listUsers(page, pageSize int, q string) (int64, []dbUser, error) {
	query := s.db.Model(&dbUser{})
	if q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, nil, err
	}

	var users []dbUser
	err := query.Order("id").Limit(pageSize).Offset(page * pageSize).Find(&users).Error
	return count, users, err
}

func (s *store) userByID(id int64) (*dbUser, error) {
	var user dbUser
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) userByEmail(email string) (*dbUser, error) {
	var user dbUser
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) createUser(user *dbUser) error {
	return s.db.Create(user).Error
}

func (s *store) saveUser(user *dbUser) error {
	return s.db.Save(user).Error
}

func (s *store) deleteUser(id int64) error {
	result := s.db.Delete(&dbUser{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *store) listCars(page, pageSize int, q string) (int64, []dbCar, error) {
	query := s.db.Model(&dbCar{})
	if q != "" {
		query = query.Where("name LIKE ?", "%"+q+"%")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, nil, err
	}

	var cars []dbCar
	err := query.Order("id").Limit(pageSize).Offset(page * pageSize).Find(&cars).Error
	return count, cars, err
}

func (s *store) carByID(id int64) (*dbCar, error) {
	var car dbCar
	if err := s.db.First(&car, id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

func (s *store) createCar(car *dbCar) error {
	return s.db.Create(car).Error
}

func (s *store) saveCar(car *dbCar) error {
	return s.db.Save(car).Error
}

func (s *store) deleteCar(id int64) error {
	result := s.db.Delete(&dbCar{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toUser(u *dbUser) *models.User {
	return &models.User{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     models.Role(u.Role),
		Avatar:   u.Avatar,
	}
}

func toCar(c *dbCar) *models.Car {
	return &models.Car{
		ID:        c.ID,
		Name:      c.Name,
		Brand:     c.Brand,
		Model:     c.Model,
		Price:     c.Price,
		Image:     c.Image,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// Package fixture is a local stand-in for the dashboard backend. It
// realizes the same wire contract the client SDK consumes (login envelope,
// {count, rows} lists, {message} mutations, multipart image patches) so the
// TUI and the integration suite can run without the real service.
package fixture

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lmoraes94/verzel-admin/internal/config"
	"github.com/lmoraes94/verzel-admin/internal/models"
)

type Server struct {
	store     *store
	tokens    *tokenManager
	uploadDir string
	engine    *gin.Engine
}

func NewServer(cfg config.DevServerConfig) (*Server, error) {
	st, err := openStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if cfg.SeedAdmin {
		if err := st.seed(); err != nil {
			return nil, err
		}
	}

	tokens, err := newTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{store: st, tokens: tokens, uploadDir: cfg.UploadDir}
	s.engine = s.buildRouter()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(loggingMiddleware())
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.Static("/uploads", s.uploadDir)

	r.POST("/auth/login", s.handleLogin)

	authed := r.Group("", s.authRequired())

	authed.GET("/users", s.handleListUsers)
	authed.POST("/users", s.handleCreateUser)
	authed.PUT("/users/:id", s.handleUpdateUser)
	authed.DELETE("/users/:id", s.handleDeleteUser)
	authed.PATCH("/users/:id/avatar", s.handleChangeAvatar)
	authed.PATCH("/users/:id/remove-avatar", s.handleRemoveAvatar)

	authed.GET("/cars", s.handleListCars)
	authed.POST("/cars", s.handleCreateCar)
	authed.PUT("/cars/:id", s.handleUpdateCar)
	authed.DELETE("/cars/:id", s.handleDeleteCar)
	authed.PATCH("/cars/:id/image", s.handleChangeCarImage)
	authed.PATCH("/cars/:id/remove-image", s.handleRemoveCarImage)

	return r
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token ausente."})
			return
		}
		claims, err := s.tokens.parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token inválido."})
			return
		}
		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"user": nil, "message": "Requisição inválida."})
		return
	}

	user, err := s.store.userByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil || checkPassword(user.PasswordHash, req.Password) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"user": nil, "message": "Usuário ou senha inválidos."})
		return
	}

	token, err := s.tokens.issue(user.ID, user.Email, user.Role)
	if err != nil {
		logrus.WithError(err).Error("failed to issue token")
		c.JSON(http.StatusInternalServerError, gin.H{"user": nil, "message": "Erro interno."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    toUser(user),
		"token":   token,
		"message": "Login realizado com sucesso.",
	})
}

func listParams(c *gin.Context) (page, pageSize int, q string) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "0"))
	if page < 0 {
		page = 0
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "5"))
	if pageSize <= 0 {
		pageSize = 5
	}
	if pageSize > 50 {
		pageSize = 50
	}
	return page, pageSize, c.Query("q")
}

func (s *Server) handleListUsers(c *gin.Context) {
	page, pageSize, q := listParams(c)

	count, users, err := s.store.listUsers(page, pageSize, q)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao carregar usuários."})
		return
	}

	rows := make([]*models.User, 0, len(users))
	for i := range users {
		rows = append(rows, toUser(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "rows": rows})
}

type userPayload struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone"`
	Role     string  `json:"role"`
	Password string  `json:"password"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos."})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Senha é um campo obrigatório."})
		return
	}

	if _, err := s.store.userByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "E-mail já cadastrado."})
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		logrus.WithError(err).Error("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro interno."})
		return
	}

	role := req.Role
	if role == "" {
		role = string(models.RoleUser)
	}
	user := dbUser{
		Name:         req.Name,
		Username:     req.Username,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.store.createUser(&user); err != nil {
		logrus.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao criar usuário."})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Usuário criado com sucesso."})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}

	var req userPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos."})
		return
	}

	user, err := s.store.userByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Usuário não encontrado."})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			logrus.WithError(err).Error("failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro interno."})
			return
		}
		user.PasswordHash = hash
	}

	if err := s.store.saveUser(user); err != nil {
		logrus.WithError(err).Error("failed to update user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao atualizar usuário."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":    toUser(user),
		"message": "Usuário atualizado com sucesso.",
	})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	if err := s.store.deleteUser(id); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Usuário não encontrado."})
			return
		}
		logrus.WithError(err).Error("failed to delete user")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao remover usuário."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário removido com sucesso."})
}

// saveUpload stores a multipart file under the upload dir with a generated
// name and returns its public path.
func (s *Server) saveUpload(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(s.uploadDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}

func (s *Server) handleChangeAvatar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	user, err := s.store.userByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Usuário não encontrado."})
		return
	}

	path, err := s.saveUpload(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Arquivo de avatar inválido."})
		return
	}

	user.Avatar = &path
	if err := s.store.saveUser(user); err != nil {
		logrus.WithError(err).Error("failed to save avatar")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao salvar avatar."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUser(user), "message": "Avatar atualizado com sucesso."})
}

func (s *Server) handleRemoveAvatar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	user, err := s.store.userByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Usuário não encontrado."})
		return
	}

	user.Avatar = nil
	if err := s.store.saveUser(user); err != nil {
		logrus.WithError(err).Error("failed to remove avatar")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao remover avatar."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUser(user), "message": "Avatar removido com sucesso."})
}

func (s *Server) handleListCars(c *gin.Context) {
	page, pageSize, q := listParams(c)

	count, cars, err := s.store.listCars(page, pageSize, q)
	if err != nil {
		logrus.WithError(err).Error("failed to list cars")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao carregar carros."})
		return
	}

	rows := make([]*models.Car, 0, len(cars))
	for i := range cars {
		rows = append(rows, toCar(&cars[i]))
	}
	c.JSON(http.StatusOK, gin.H{"count": count, "rows": rows})
}

type carPayload struct {
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Model string  `json:"model"`
	Price float64 `json:"price"`
}

func (s *Server) handleCreateCar(c *gin.Context) {
	var req carPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos."})
		return
	}
	if req.Name == "" || req.Brand == "" || req.Model == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Nome, marca e modelo são obrigatórios."})
		return
	}

	car := dbCar{Name: req.Name, Brand: req.Brand, Model: req.Model, Price: req.Price}
	if err := s.store.createCar(&car); err != nil {
		logrus.WithError(err).Error("failed to create car")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao criar carro."})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Carro criado com sucesso."})
}

func (s *Server) handleUpdateCar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}

	// Price uses a pointer so that an explicit zero is distinguishable
	// from an absent field.
	var req struct {
		Name  string   `json:"name"`
		Brand string   `json:"brand"`
		Model string   `json:"model"`
		Price *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Dados inválidos."})
		return
	}

	car, err := s.store.carByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Carro não encontrado."})
		return
	}

	if req.Name != "" {
		car.Name = req.Name
	}
	if req.Brand != "" {
		car.Brand = req.Brand
	}
	if req.Model != "" {
		car.Model = req.Model
	}
	if req.Price != nil && *req.Price >= 0 {
		car.Price = *req.Price
	}

	if err := s.store.saveCar(car); err != nil {
		logrus.WithError(err).Error("failed to update car")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao atualizar carro."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Carro atualizado com sucesso."})
}

func (s *Server) handleDeleteCar(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	if err := s.store.deleteCar(id); err != nil {
		if isNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Carro não encontrado."})
			return
		}
		logrus.WithError(err).Error("failed to delete car")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao remover carro."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Carro removido com sucesso."})
}

func (s *Server) handleChangeCarImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	car, err := s.store.carByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Carro não encontrado."})
		return
	}

	path, err := s.saveUpload(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Arquivo de imagem inválido."})
		return
	}

	car.Image = path
	if err := s.store.saveCar(car); err != nil {
		logrus.WithError(err).Error("failed to save car image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao salvar imagem."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagem atualizada com sucesso."})
}

func (s *Server) handleRemoveCarImage(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Identificador inválido."})
		return
	}
	car, err := s.store.carByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Carro não encontrado."})
		return
	}

	car.Image = ""
	if err := s.store.saveCar(car); err != nil {
		logrus.WithError(err).Error("failed to remove car image")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao remover imagem."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Imagem removida com sucesso."})
}

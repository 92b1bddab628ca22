package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lmoraes94/verzel-admin/internal/models"
)

// Login posts credentials. Non-2xx responses surface as *Error carrying the
// server message; a 2xx response with a null user is the caller's problem,
// the wire shape allows it.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	payload := map[string]string{"email": email, "password": password}

	var resp models.LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/auth/login", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// List fetches one page of a resource collection. The query string always
// carries all three parameters, even when q is empty.
func List[T any](ctx context.Context, c *Client, resource string, page, pageSize int, q string) (*models.ListResult[T], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))
	query.Set("q", q)

	var result models.ListResult[T]
	path := fmt.Sprintf("/%s?%s", resource, query.Encode())
	if err := c.getJSON(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Create(ctx context.Context, resource string, payload any) (*models.MutationResponse, error) {
	var resp models.MutationResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/"+resource, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Update(ctx context.Context, resource string, id int64, payload any) (*models.MutationResponse, error) {
	var resp models.MutationResponse
	path := fmt.Sprintf("/%s/%d", resource, id)
	if err := c.sendJSON(ctx, http.MethodPut, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Delete(ctx context.Context, resource string, id int64) (*models.MutationResponse, error) {
	var resp models.MutationResponse
	path := fmt.Sprintf("/%s/%d", resource, id)
	if err := c.do(ctx, http.MethodDelete, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload patches a resource's image field as multipart form data. The form
// field name matches the resource's image field: "avatar" for users,
// "image" for cars.
func (c *Client) Upload(ctx context.Context, resource string, id int64, field, filename string, file io.Reader) (*models.MutationResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var resp models.MutationResponse
	path := fmt.Sprintf("/%s/%d/%s", resource, id, field)
	if err := c.do(ctx, http.MethodPatch, path, &buf, writer.FormDataContentType(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) RemoveUpload(ctx context.Context, resource string, id int64, field string) (*models.MutationResponse, error) {
	var resp models.MutationResponse
	path := fmt.Sprintf("/%s/%d/remove-%s", resource, id, field)
	if err := c.do(ctx, http.MethodPatch, path, nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

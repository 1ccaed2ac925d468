package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/academykit/kiosk/core/student"
)

type studentRepository struct {
	c *Client
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(c *Client) student.Repository {
	return &studentRepository{c: c}
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var students []student.Student
	if err := repo.c.do(ctx, http.MethodGet, "/users", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	var s student.Student
	err := repo.c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &s)
	if err != nil {
		if IsNotFound(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return s, nil
}

func (repo *studentRepository) FindStudentsByPIN(ctx context.Context, pin string) ([]student.Student, error) {
	var students []student.Student
	path := "/users?pin=" + url.QueryEscape(pin)
	if err := repo.c.do(ctx, http.MethodGet, path, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	var saved student.Student
	if err := repo.c.do(ctx, http.MethodPost, "/users", s, &saved); err != nil {
		return student.Student{}, err
	}
	return saved, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	var saved student.Student
	err := repo.c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(s.ID), s, &saved)
	if err != nil {
		if IsNotFound(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, err
	}
	return saved, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id string) error {
	err := repo.c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
	if IsNotFound(err) {
		return student.ErrNotFound
	}
	return err
}

func (repo *studentRepository) CheckInStudent(ctx context.Context, id string) error {
	err := repo.c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/checkin", nil, nil)
	if IsNotFound(err) {
		return student.ErrNotFound
	}
	return err
}

func (repo *studentRepository) CheckOutStudent(ctx context.Context, id string) error {
	err := repo.c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/checkout", nil, nil)
	if IsNotFound(err) {
		return student.ErrNotFound
	}
	return err
}

func (repo *studentRepository) DeleteSession(ctx context.Context, id string, index int) error {
	path := fmt.Sprintf("/users/%s/session/%d", url.PathEscape(id), index)
	err := repo.c.do(ctx, http.MethodDelete, path, nil, nil)
	if IsNotFound(err) {
		return student.ErrNotFound
	}
	return err
}

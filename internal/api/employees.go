package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

// EmployeeFilter narrows GET /funcionarios. The zero value lists everyone.
type EmployeeFilter struct {
	SectorID    int
	OnProbation bool
}

func (f EmployeeFilter) values() url.Values {
	q := url.Values{}
	if f.SectorID > 0 {
		q.Set("setor_id", strconv.Itoa(f.SectorID))
	}
	if f.OnProbation {
		q.Set("em_experiencia", "true")
	}
	return q
}

// ListEmployees returns active employees matching filter
func (c *Client) ListEmployees(ctx context.Context, filter EmployeeFilter) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := c.do(ctx, request{method: http.MethodGet, path: "/funcionarios", query: filter.values()}, &employees)
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// CreateEmployee adds an employee
func (c *Client) CreateEmployee(ctx context.Context, in domain.EmployeeInput) (*domain.Employee, error) {
	var employee domain.Employee
	if err := c.do(ctx, request{method: http.MethodPost, path: "/funcionarios", body: in}, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// UpdateEmployee replaces an employee's fields
func (c *Client) UpdateEmployee(ctx context.Context, id int, in domain.EmployeeInput) (*domain.Employee, error) {
	var employee domain.Employee
	if err := c.do(ctx, request{method: http.MethodPut, path: idPath("/funcionarios", id), body: in}, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// DeleteEmployee removes an employee. The backend deactivates instead when
// feedback exists for them.
func (c *Client) DeleteEmployee(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, path: idPath("/funcionarios", id)}, nil)
}

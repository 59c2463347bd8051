package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/octobees/engagesphere/api/internal/dto"
	"github.com/octobees/engagesphere/api/internal/entity"
	"github.com/octobees/engagesphere/api/internal/repository"
)

// DefaultPageLimit is used when GET /customers omits limit and no other default is configured.
const DefaultPageLimit = 10

// ValidationKind names the class of a rejected listing query.
type ValidationKind string

// Validation kinds reported by ParseListQuery.
const (
	InvalidPagination ValidationKind = "InvalidPagination"
	InvalidSize       ValidationKind = "InvalidSize"
	InvalidIndustry   ValidationKind = "InvalidIndustry"
)

// ValidationError indicates that the caller supplied unusable query parameters.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// Errors returned by ParseListQuery. Messages are part of the public API contract.
var (
	ErrInvalidPagination = &ValidationError{
		Kind:    InvalidPagination,
		Message: "Invalid page or limit. Both must be positive numbers.",
	}
	ErrInvalidSize = &ValidationError{
		Kind:    InvalidSize,
		Message: "Unsupported size value. Supported values are All, Small, Medium, Enterprise, Large Enterprise, and Very Large Enterprise.",
	}
	ErrInvalidIndustry = &ValidationError{
		Kind:    InvalidIndustry,
		Message: "Unsupported industry value. Supported values are All, Logistics, Retail, Technology, HR, and Finance.",
	}
)

// CustomersService answers customer directory queries.
type CustomersService struct {
	repo         repository.CustomersRepository
	defaultLimit int
}

// NewCustomersService creates a service; a non-positive defaultLimit falls back to DefaultPageLimit.
func NewCustomersService(repo repository.CustomersRepository, defaultLimit int) *CustomersService {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageLimit
	}
	return &CustomersService{repo: repo, defaultLimit: defaultLimit}
}

// ListCustomers validates the query, then filters and paginates the directory snapshot.
func (s *CustomersService) ListCustomers(ctx context.Context, query dto.ListQuery) (dto.CustomerList, error) {
	params, err := s.ParseListQuery(query)
	if err != nil {
		return dto.CustomerList{}, err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return dto.CustomerList{}, fmt.Errorf("list customers: %w", err)
	}

	filtered := FilterCustomers(all, params.Size, params.Industry)
	page, info := Paginate(filtered, params.Page, params.Limit)

	return dto.CustomerList{Customers: page, PageInfo: info}, nil
}

// ParseListQuery checks pagination, then size, then industry and reports the first violation.
func (s *CustomersService) ParseListQuery(query dto.ListQuery) (dto.ListParams, error) {
	params := dto.ListParams{
		Page:     1,
		Limit:    s.defaultLimit,
		Size:     entity.Any[entity.Size](),
		Industry: entity.Any[entity.Industry](),
	}

	var ok bool
	if query.Page != nil {
		if params.Page, ok = parsePositiveInt(*query.Page); !ok {
			return dto.ListParams{}, ErrInvalidPagination
		}
	}
	if query.Limit != nil {
		if params.Limit, ok = parsePositiveInt(*query.Limit); !ok {
			return dto.ListParams{}, ErrInvalidPagination
		}
	}
	if query.Size != nil {
		if params.Size, ok = entity.ParseSelector(*query.Size, entity.Sizes); !ok {
			return dto.ListParams{}, ErrInvalidSize
		}
	}
	if query.Industry != nil {
		if params.Industry, ok = entity.ParseSelector(*query.Industry, entity.Industries); !ok {
			return dto.ListParams{}, ErrInvalidIndustry
		}
	}

	return params, nil
}

// FilterCustomers keeps the customers matching both selectors, preserving their order.
func FilterCustomers(customers []entity.Customer, size entity.Selector[entity.Size], industry entity.Selector[entity.Industry]) []entity.Customer {
	filtered := make([]entity.Customer, 0, len(customers))
	for _, c := range customers {
		if size.Matches(c.Size) && industry.Matches(c.Industry) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Paginate returns the page window [(page-1)*limit, page*limit) of customers and its PageInfo.
// page and limit must be positive. A page past the end yields an empty slice.
func Paginate(customers []entity.Customer, page, limit int) ([]entity.Customer, dto.PageInfo) {
	total := len(customers)

	// Computed without (page-1)*limit so huge values cannot overflow.
	pages := total / limit
	if total%limit != 0 {
		pages++
	}

	info := dto.PageInfo{
		CurrentPage:    page,
		TotalPages:     max(pages, 1),
		TotalCustomers: total,
	}

	if page > pages {
		return []entity.Customer{}, info
	}

	start := (page - 1) * limit
	end := total
	if limit < total-start {
		end = start + limit
	}

	window := make([]entity.Customer, end-start)
	copy(window, customers[start:end])
	return window, info
}

func parsePositiveInt(raw string) (int, bool) {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

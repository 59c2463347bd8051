package dto

import "github.com/octobees/engagesphere/api/internal/entity"

// ListQuery carries the raw GET /customers query values. A nil field means the parameter was absent.
type ListQuery struct {
	Page     *string
	Limit    *string
	Size     *string
	Industry *string
}

// ListParams is a validated ListQuery.
type ListParams struct {
	Page     int
	Limit    int
	Size     entity.Selector[entity.Size]
	Industry entity.Selector[entity.Industry]
}

// PageInfo describes the page window of a listing.
type PageInfo struct {
	CurrentPage    int `json:"currentPage"`
	TotalPages     int `json:"totalPages"`
	TotalCustomers int `json:"totalCustomers"`
}

// CustomerList is the body of a successful GET /customers response.
type CustomerList struct {
	Customers []entity.Customer `json:"customers"`
	PageInfo  PageInfo          `json:"pageInfo"`
}

package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chapterhq/lodge/internal/models"
)

const defaultPerPage = 50

func calculateTotalPages(perPage, total uint64) uint64 {
	pages := total / perPage
	if total%perPage > 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return pages
}

func addPaginationHeaders(w http.ResponseWriter, r *http.Request, p *models.Pagination) {
	totalPages := calculateTotalPages(p.PerPage, p.Count)
	url, _ := url.ParseRequestURI(r.URL.String())
	query := url.Query()
	header := ""
	if totalPages > p.Page {
		query.Set("page", fmt.Sprintf("%v", p.Page+1))
		url.RawQuery = query.Encode()
		header += "<" + url.String() + ">; rel=\"next\", "
	}
	query.Set("page", fmt.Sprintf("%v", totalPages))
	url.RawQuery = query.Encode()
	header += "<" + url.String() + ">; rel=\"last\""

	w.Header().Set("Link", header)
	w.Header().Set("X-Total-Count", fmt.Sprintf("%v", p.Count))
}

func paginate(r *http.Request) (*models.Pagination, error) {
	params := r.URL.Query()
	page := uint64(1)
	perPage := uint64(defaultPerPage)
	var err error
	if v := params.Get("page"); v != "" {
		page, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, badRequestError(ErrorCodeValidationFailed, "Bad page number: %v", err)
		}
	}
	if v := params.Get("per_page"); v != "" {
		perPage, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, badRequestError(ErrorCodeValidationFailed, "Bad per_page number: %v", err)
		}
	}
	if page == 0 {
		page = 1
	}
	if perPage == 0 {
		perPage = defaultPerPage
	}
	return &models.Pagination{
		Page:    page,
		PerPage: perPage,
	}, nil
}

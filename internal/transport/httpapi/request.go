package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vladislavdragonenkov/siproad-orders/internal/domain"
)

const maxBodyBytes = 1 << 20

func decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.InvalidArgument("request body is required")
		}
		return domain.InvalidArgument("invalid request body: %v", err)
	}
	return nil
}

func parsePagination(r *http.Request) (domain.Pagination, error) {
	query := r.URL.Query()
	page, err := optionalPositive(query.Get("page"), "page")
	if err != nil {
		return domain.Pagination{}, err
	}
	limit, err := optionalPositive(query.Get("limit"), "limit")
	if err != nil {
		return domain.Pagination{}, err
	}
	return domain.Pagination{Page: page, Limit: limit}, nil
}

func optionalPositive(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return 0, domain.InvalidArgument("%s must be a positive integer", name)
	}
	return value, nil
}

// parseSearchInput читает search/searchList из query, а при их отсутствии
// из необязательного JSON-тела GET-запроса.
func parseSearchInput(r *http.Request) (domain.SearchInput, error) {
	query := r.URL.Query()
	input := domain.SearchInput{Search: query.Get("search")}
	for _, raw := range query["searchList"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				input.SearchList = append(input.SearchList, name)
			}
		}
	}
	if input.HasSearch() || input.HasSearchList() {
		return input, nil
	}

	if r.Body == nil || r.ContentLength == 0 {
		return input, nil
	}
	var body domain.SearchInput
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return input, nil
		}
		return input, domain.InvalidArgument("invalid search body: %v", err)
	}
	return body, nil
}

func requireUUID(value string) error {
	if !domain.LooksLikeID(value) {
		return domain.InvalidArgument("Validation failed (uuid is expected)")
	}
	return nil
}

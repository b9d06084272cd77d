package transport

import (
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/repository"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

var sortFields = map[string]struct{}{
	"createdAt": {},
	"title":     {},
	"priority":  {},
	"endDate":   {},
}

// BuildTaskFilter parses raw query parameters into a validated task
// listing descriptor scoped to the given owner. Sort field and priority
// are checked against their allow-lists before anything reaches the
// store.
func BuildTaskFilter(args *fasthttp.Args, userID string) (repository.TaskFilter, error) {
	page, perPage, err := parsePagination(string(args.Peek("page")), string(args.Peek("perPage")))
	if err != nil {
		return repository.TaskFilter{}, err
	}

	filter := repository.TaskFilter{
		UserID:  userID,
		Search:  string(args.Peek("search")),
		SortBy:  "createdAt",
		Desc:    string(args.Peek("desc")) == "true",
		Page:    page,
		PerPage: perPage,
	}

	if sortID := string(args.Peek("sortId")); sortID != "" {
		if _, ok := sortFields[sortID]; !ok {
			return repository.TaskFilter{}, domain.NewError(domain.ErrCodeInvalid, "Unknown sort field")
		}
		filter.SortBy = sortID
	}

	if raw := string(args.Peek("priority")); raw != "" {
		priority, ok := domain.ParsePriority(raw)
		if !ok {
			return repository.TaskFilter{}, domain.NewError(domain.ErrCodeInvalid, "Priority must be LOW, MEDIUM, or HIGH")
		}
		filter.Priority = priority
	}

	return filter, nil
}

func parsePagination(rawPage, rawPerPage string) (int, int, error) {
	page := defaultPage
	if rawPage != "" {
		parsed, err := strconv.Atoi(rawPage)
		if err != nil || parsed < 1 {
			return 0, 0, domain.NewError(domain.ErrCodeInvalid, "Page must be a positive integer")
		}
		page = parsed
	}

	perPage := defaultPerPage
	if rawPerPage != "" {
		parsed, err := strconv.Atoi(rawPerPage)
		if err != nil || parsed < 1 || parsed > maxPerPage {
			return 0, 0, domain.NewError(domain.ErrCodeInvalid, "PerPage must be between 1 and 100")
		}
		perPage = parsed
	}

	return page, perPage, nil
}

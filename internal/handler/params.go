package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"aide-sociale/internal/domain"
	"aide-sociale/internal/middleware"
)

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()

	if page := c.QueryInt("page", 1); page > 0 {
		params.Page = page
	}
	if pageSize := c.QueryInt("page_size", 20); pageSize > 0 {
		params.PageSize = pageSize
	}

	params.Validate()
	return params
}

func getListParams(c *fiber.Ctx) domain.ListParams {
	params := domain.DefaultListParams()
	params.PaginationParams = getPaginationParams(c)

	if sortBy := c.Query("sort_by"); sortBy != "" {
		params.SortBy = sortBy
	}
	if sortOrder := c.Query("sort_order"); sortOrder != "" {
		params.SortOrder = domain.SortOrder(strings.ToLower(sortOrder))
	}
	return params
}

// getNotificationFilter reads the shared filter query parameters. Enum
// values are checked later by the service.
func getNotificationFilter(c *fiber.Ctx) (domain.NotificationFilter, error) {
	var f domain.NotificationFilter

	if v := c.Query("type"); v != "" {
		t := domain.NotificationType(v)
		f.Type = &t
	}
	if v := c.Query("category"); v != "" {
		cat := domain.NotificationCategory(v)
		f.Category = &cat
	}
	if v := c.Query("priority"); v != "" {
		p := domain.Priority(v)
		f.Priority = &p
	}
	if v := c.Query("status"); v != "" {
		s := domain.Status(v)
		f.Status = &s
	}
	if v := c.Query("delivery_status"); v != "" {
		d := domain.DeliveryStatus(v)
		f.DeliveryStatus = &d
	}

	var err error
	if f.RecipientID, err = queryUUID(c, "recipient_id"); err != nil {
		return f, err
	}
	if f.BatchID, err = queryUUID(c, "batch_id"); err != nil {
		return f, err
	}
	if f.IsRead, err = queryBool(c, "is_read"); err != nil {
		return f, err
	}
	if f.ActionRequired, err = queryBool(c, "action_required"); err != nil {
		return f, err
	}
	if f.CreatedFrom, err = queryTime(c, "created_from", false); err != nil {
		return f, err
	}
	if f.CreatedTo, err = queryTime(c, "created_to", true); err != nil {
		return f, err
	}

	f.Search = strings.TrimSpace(c.Query("search"))
	return f, nil
}

func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, middleware.BadRequest("Invalid " + key)
	}
	return &id, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, middleware.BadRequest("Invalid " + key)
	}
	return &b, nil
}

// queryTime accepts RFC 3339 or a bare date. A bare date used as an upper
// bound covers the whole day.
func queryTime(c *fiber.Ctx, key string, endOfDay bool) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, middleware.BadRequest("Invalid " + key + ", expected RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func paramUUID(c *fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, middleware.BadRequest("Invalid notification ID")
	}
	return id, nil
}

func currentCaller(c *fiber.Ctx) (domain.Caller, error) {
	caller, ok := middleware.GetCaller(c)
	if !ok {
		return domain.Caller{}, middleware.Unauthorized("User not authenticated")
	}
	return caller, nil
}

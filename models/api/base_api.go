package apimodels

// Response is the envelope of every HTTP answer. Errors carry a readable message and success=false.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type PageInfo struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

type ScrollerResponse struct {
	Response
	Pagination PageInfo `json:"pagination"`
}

func NewError(message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

func NewMessage(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

type Pagination struct {
	Limit int `json:"limit" query:"limit"` // records per page
	Page  int `json:"page" query:"page"`   // 1-based
}

// GetPage applies the defaults: page 1, limit defaultLimit, limit capped at 100.
func (r Pagination) GetPage(defaultLimit int) (page, limit int) {
	page = 1
	limit = defaultLimit
	if r.Page > 0 {
		page = r.Page
	}
	if r.Limit > 0 {
		limit = r.Limit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func NewPageInfo(page, limit int, total int64) PageInfo {
	pages := int64(0)
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return PageInfo{Page: page, Limit: limit, Total: total, Pages: pages}
}

func NewScrollerResponse(data interface{}, info PageInfo) ScrollerResponse {
	return ScrollerResponse{
		Response:   NewResponse(data),
		Pagination: info,
	}
}

package models

type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Limit    int       `json:"limit"`
}

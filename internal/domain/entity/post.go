package entity

import "time"

type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
)

type PostStatus string

const (
	PostStatusPosted  PostStatus = "posted"
	PostStatusFailed  PostStatus = "failed"
	PostStatusSkipped PostStatus = "skipped"
	PostStatusDraft   PostStatus = "draft"
)

// Post - запись аудита: одна попытка публикации в один канал.
type Post struct {
	ID         int64
	DealID     int64
	Channel    Channel
	Status     PostStatus
	ExternalID string
	Payload    map[string]any
	CreatedAt  time.Time
}

// Outcome - то, что вернул издатель для одного адресата канала.
type Outcome struct {
	Channel    Channel
	Status     PostStatus
	ExternalID string
	Payload    map[string]any
}

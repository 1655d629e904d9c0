package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"

	"smartdeals/internal/domain"
	"smartdeals/internal/domain/entity"
	"smartdeals/pkg/errcodes"
	"smartdeals/pkg/lox"
)

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	payload := p.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	payloadJSON, err := toJSON(payload)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to encode post payload")
	}

	err = r.db.QueryRowxContext(ctx, r.db.Rebind(`
		INSERT INTO posts (deal_id, channel, status, external_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`),
		p.DealID, string(p.Channel), string(p.Status), p.ExternalID, payloadJSON, p.CreatedAt.UTC(),
	).Scan(&p.ID)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert post")
	}

	return nil
}

// List - последние попытки публикации, новые сверху.
func (r *PostRepository) List(ctx context.Context, limit int) ([]entity.Post, error) {
	var schemas []postSchema

	err := r.db.SelectContext(ctx, &schemas, r.db.Rebind(`
		SELECT id, deal_id, channel, status, external_id, payload, created_at FROM posts
		ORDER BY created_at DESC, id DESC
		LIMIT ?`), listLimit(limit))
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list posts")
	}

	posts, err := lox.MapErr(schemas, postSchema.toDomain)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to decode posts")
	}

	return posts, nil
}

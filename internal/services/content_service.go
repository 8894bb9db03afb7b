package services

import (
	"context"
	"log/slog"

	"github.com/ecociudad/ecociudad-backend/internal/authz"
	"github.com/ecociudad/ecociudad-backend/internal/dto"
	"github.com/ecociudad/ecociudad-backend/internal/models"
	"github.com/ecociudad/ecociudad-backend/internal/textutil"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentService struct {
	db     *gorm.DB
	points *PointsService
}

func NewContentService(db *gorm.DB, points *PointsService) *ContentService {
	return &ContentService{db: db, points: points}
}

// RecordContentView credits the educacion activity the first time a user
// opens an article. The interaction row is inserted with ON CONFLICT DO
// NOTHING against the (user, content, type) unique index, so repeat or
// concurrent views credit exactly once and only the first bumps the counter.
func (s *ContentService) RecordContentView(ctx context.Context, p authz.Principal, contentID uuid.UUID) (*dto.ViewResponse, error) {
	var activity *models.Activity
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content, err := s.readable(tx, p, contentID)
		if err != nil {
			return err
		}

		inserted, err := insertInteraction(tx, p.ID, content.ID, models.InteractionView)
		if err != nil || !inserted {
			return err
		}

		result := tx.Model(&models.EducationalContent{}).
			Where("id = ?", content.ID).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if result.Error != nil {
			return backend(result.Error, "content")
		}

		activity, err = s.points.recordActivityTx(tx, p.ID, models.ActivityEducacion,
			models.ActivityEducacion.Points(), "Contenido leído: "+content.Title)
		return err
	})
	if err != nil {
		return nil, err
	}

	if activity == nil {
		return &dto.ViewResponse{}, nil
	}
	observeCredit(activity)
	return &dto.ViewResponse{Credited: true, PointsEarned: activity.PointsEarned}, nil
}

// ToggleLike flips the principal's like on an article and reports the new
// state.
func (s *ContentService) ToggleLike(ctx context.Context, p authz.Principal, contentID uuid.UUID) (*dto.LikeResponse, error) {
	var liked bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.readable(tx, p, contentID); err != nil {
			return err
		}

		removed := tx.
			Where("user_id = ? AND content_id = ? AND interaction_type = ?", p.ID, contentID, models.InteractionLike).
			Delete(&models.ContentInteraction{})
		if removed.Error != nil {
			return backend(removed.Error, "content interaction")
		}
		if removed.RowsAffected > 0 {
			liked = false
			return nil
		}

		if _, err := insertInteraction(tx, p.ID, contentID, models.InteractionLike); err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.LikeResponse{Liked: liked}, nil
}

// MarkComplete records that the principal finished an article. It reports
// whether this call was the first completion.
func (s *ContentService) MarkComplete(ctx context.Context, p authz.Principal, contentID uuid.UUID) (bool, error) {
	var inserted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.readable(tx, p, contentID); err != nil {
			return err
		}
		var err error
		inserted, err = insertInteraction(tx, p.ID, contentID, models.InteractionComplete)
		return err
	})
	return inserted, err
}

// ListPublished returns published articles, newest first, rendered to HTML
// and annotated with like counts and the principal's own interactions.
func (s *ContentService) ListPublished(ctx context.Context, p authz.Principal) ([]dto.ContentResponse, error) {
	db := s.db.WithContext(ctx)

	var contents []models.EducationalContent
	if err := db.Where("is_published = ?", true).Order("created_at DESC").Find(&contents).Error; err != nil {
		return nil, backend(err, "content")
	}

	out := make([]dto.ContentResponse, 0, len(contents))
	if len(contents) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(contents))
	for i, c := range contents {
		ids[i] = c.ID
	}

	var likeRows []struct {
		ContentID uuid.UUID
		Likes     int64
	}
	err := db.Model(&models.ContentInteraction{}).
		Select("content_id, COUNT(*) AS likes").
		Where("interaction_type = ? AND content_id IN ?", models.InteractionLike, ids).
		Group("content_id").
		Scan(&likeRows).Error
	if err != nil {
		return nil, backend(err, "content interactions")
	}
	likes := make(map[uuid.UUID]int64, len(likeRows))
	for _, r := range likeRows {
		likes[r.ContentID] = r.Likes
	}

	var mine []models.ContentInteraction
	err = db.Where("user_id = ? AND content_id IN ?", p.ID, ids).Find(&mine).Error
	if err != nil {
		return nil, backend(err, "content interactions")
	}
	viewed := map[uuid.UUID]bool{}
	liked := map[uuid.UUID]bool{}
	for _, i := range mine {
		switch i.InteractionType {
		case models.InteractionView:
			viewed[i.ContentID] = true
		case models.InteractionLike:
			liked[i.ContentID] = true
		}
	}

	for _, c := range contents {
		html, err := textutil.Markdown(c.Content)
		if err != nil {
			slog.Warn("markdown render failed", "content_id", c.ID.String(), "error", err)
		}
		out = append(out, dto.ContentResponse{
			ID:        c.ID,
			Title:     c.Title,
			Content:   c.Content,
			HTML:      html,
			Category:  c.Category,
			Views:     c.Views,
			Likes:     likes[c.ID],
			Viewed:    viewed[c.ID],
			Liked:     liked[c.ID],
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

func (s *ContentService) CreateContent(ctx context.Context, actor authz.Principal, req *dto.CreateContentRequest) (*models.EducationalContent, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can publish content")
	}
	title := textutil.Plain(req.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if !req.Category.Valid() {
		return nil, validationf("unknown content category %q", req.Category)
	}
	if req.Content == "" {
		return nil, validationf("content is required")
	}

	content := models.EducationalContent{
		ID:          uuid.New(),
		Title:       title,
		Content:     req.Content,
		Category:    req.Category,
		AuthorID:    actor.ID,
		IsPublished: req.IsPublished,
	}
	if err := s.db.WithContext(ctx).Create(&content).Error; err != nil {
		return nil, backend(err, "content")
	}
	return &content, nil
}

func (s *ContentService) SetPublished(ctx context.Context, actor authz.Principal, contentID uuid.UUID, published bool) (*models.EducationalContent, error) {
	if !authz.CanManageCatalog(actor) {
		return nil, forbiddenf("only admins can publish content")
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&models.EducationalContent{}).Where("id = ?", contentID).Update("is_published", published)
	if result.Error != nil {
		return nil, backend(result.Error, "content")
	}
	if result.RowsAffected == 0 {
		return nil, notFound("content")
	}

	var content models.EducationalContent
	if err := db.First(&content, "id = ?", contentID).Error; err != nil {
		return nil, backend(err, "content")
	}
	return &content, nil
}

// readable loads an article the principal may interact with. Drafts are
// only visible to admins.
func (s *ContentService) readable(tx *gorm.DB, p authz.Principal, contentID uuid.UUID) (*models.EducationalContent, error) {
	var content models.EducationalContent
	if err := tx.First(&content, "id = ?", contentID).Error; err != nil {
		return nil, backend(err, "content")
	}
	if !content.IsPublished && !authz.IsAdmin(p) {
		return nil, notFound("content")
	}
	return &content, nil
}

func insertInteraction(tx *gorm.DB, userID, contentID uuid.UUID, kind models.InteractionType) (bool, error) {
	interaction := models.ContentInteraction{
		ID:              uuid.New(),
		UserID:          userID,
		ContentID:       contentID,
		InteractionType: kind,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&interaction)
	if result.Error != nil {
		return false, backend(result.Error, "content interaction")
	}
	return result.RowsAffected > 0, nil
}

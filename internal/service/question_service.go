package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
	"github.com/jhappydev/gongsa-server/pkg/sanitize"
)

// ── 问答模块业务错误 ──

var (
	ErrQuestionNotFound = pkgerrors.NotFound("questionUID", "question not found")
	ErrEmptyTitle       = pkgerrors.Validation("title", "title must not be empty")
	ErrEmptyContent     = pkgerrors.Validation("content", "content must not be empty")
	ErrEmptyAnswer      = pkgerrors.Validation("answer", "answer must not be empty")
)

// QuestionService 小组问答业务接口，仅小组成员可访问
type QuestionService interface {
	Create(ctx context.Context, req *dto.CreateQuestionRequest, userUID int64) (*dto.QuestionCreatedResponse, error)
	ListByGroup(ctx context.Context, groupUID, userUID int64) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, questionUID, userUID int64) (*dto.QuestionResponse, error)
	Answer(ctx context.Context, req *dto.CreateAnswerRequest, userUID int64) (*dto.AnswerCreatedResponse, error)
}

type questionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewQuestionService 创建 QuestionService 实例
func NewQuestionService(repo *repository.Repository, logger *zap.Logger) QuestionService {
	return &questionService{repo: repo, logger: logger}
}

// ────────────── Create ──────────────

func (s *questionService) Create(ctx context.Context, req *dto.CreateQuestionRequest, userUID int64) (*dto.QuestionCreatedResponse, error) {
	title := sanitize.Text(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	if err := requireMember(ctx, s.repo, s.logger, req.GroupUID, userUID); err != nil {
		return nil, err
	}

	q := &model.Question{
		GroupUID:     req.GroupUID,
		UserUID:      userUID,
		Title:        title,
		Content:      content,
		AnswerStatus: model.AnswerStatusPending,
	}
	if err := s.repo.Question.Create(ctx, q); err != nil {
		return nil, storageFailure(s.logger, err, "创建问题失败", zap.Int64("groupUID", req.GroupUID))
	}
	return &dto.QuestionCreatedResponse{QuestionUID: q.UID}, nil
}

// ────────────── ListByGroup ──────────────

func (s *questionService) ListByGroup(ctx context.Context, groupUID, userUID int64) ([]dto.QuestionResponse, error) {
	if err := requireMember(ctx, s.repo, s.logger, groupUID, userUID); err != nil {
		return nil, err
	}

	questions, err := s.repo.Question.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询问题列表失败", zap.Int64("groupUID", groupUID))
	}

	result := make([]dto.QuestionResponse, 0, len(questions))
	for i := range questions {
		result = append(result, *toQuestionResponse(&questions[i]))
	}
	return result, nil
}

// ────────────── Get ──────────────

func (s *questionService) Get(ctx context.Context, questionUID, userUID int64) (*dto.QuestionResponse, error) {
	q, err := s.loadQuestion(ctx, questionUID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.repo, s.logger, q.GroupUID, userUID); err != nil {
		return nil, err
	}
	return toQuestionResponse(q), nil
}

// ────────────── Answer ──────────────

func (s *questionService) Answer(ctx context.Context, req *dto.CreateAnswerRequest, userUID int64) (*dto.AnswerCreatedResponse, error) {
	text := sanitize.Text(req.Answer)
	if text == "" {
		return nil, ErrEmptyAnswer
	}

	q, err := s.loadQuestion(ctx, req.QuestionUID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, s.repo, s.logger, q.GroupUID, userUID); err != nil {
		return nil, err
	}

	answer := &model.Answer{QuestionUID: q.UID, UserUID: userUID, Answer: text}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Answer.Create(ctx, answer); err != nil {
			return err
		}
		return tx.Question.UpdateAnswerStatus(ctx, q.UID, model.AnswerStatusAnswered)
	})
	if err != nil {
		return nil, storageFailure(s.logger, err, "创建回答失败", zap.Int64("questionUID", q.UID))
	}
	return &dto.AnswerCreatedResponse{AnswerUID: answer.UID}, nil
}

// ── 内部辅助方法 ──

func (s *questionService) loadQuestion(ctx context.Context, questionUID int64) (*model.Question, error) {
	q, err := s.repo.Question.GetByID(ctx, questionUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, storageFailure(s.logger, err, "查询问题失败", zap.Int64("questionUID", questionUID))
	}
	return q, nil
}

// requireMember 小组不存在 → NotFound，非成员 → Forbidden
func requireMember(ctx context.Context, repo *repository.Repository, logger *zap.Logger, groupUID, userUID int64) error {
	return requireMembership(ctx, repo, logger, groupUID, userUID, nil)
}

// requireMembership 同 requireMember，out 非空时写入成员记录
func requireMembership(ctx context.Context, repo *repository.Repository, logger *zap.Logger, groupUID, userUID int64, out **model.GroupMember) error {
	if _, err := repo.StudyGroup.GetByID(ctx, groupUID); err != nil {
		if isNotFound(err) {
			return ErrGroupNotFound
		}
		return storageFailure(logger, err, "查询小组失败", zap.Int64("groupUID", groupUID))
	}
	member, err := repo.GroupMember.Get(ctx, groupUID, userUID)
	if err != nil {
		if isNotFound(err) {
			return ErrNotMember
		}
		return storageFailure(logger, err, "查询成员关系失败", zap.Int64("groupUID", groupUID))
	}
	if out != nil {
		*out = member
	}
	return nil
}

func toQuestionResponse(q *model.Question) *dto.QuestionResponse {
	resp := &dto.QuestionResponse{
		QuestionUID:  q.UID,
		GroupUID:     q.GroupUID,
		UserUID:      q.UserUID,
		Title:        q.Title,
		Content:      q.Content,
		AnswerStatus: q.AnswerStatus,
		CreatedAt:    q.CreatedAt.Format(time.RFC3339),
	}
	if q.User != nil {
		resp.Nickname = q.User.Nickname
	}
	for _, a := range q.Answers {
		ar := dto.AnswerResponse{
			AnswerUID: a.UID,
			UserUID:   a.UserUID,
			Answer:    a.Answer,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		}
		if a.User != nil {
			ar.Nickname = a.User.Nickname
		}
		resp.Answers = append(resp.Answers, ar)
	}
	return resp
}

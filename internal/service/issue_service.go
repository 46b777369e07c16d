package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/fieldtype"
	"issue-workflow-api/internal/metrics"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/workflow"
)

// Actor is the authenticated caller of an issue operation
type Actor struct {
	UserID uuid.UUID
	Roles  []string
}

// IssueService defines the interface for issue business logic
type IssueService interface {
	CreateIssue(ctx context.Context, actor Actor, req *dto.CreateIssueRequest) (*dto.IssueResponse, error)
	GetIssue(ctx context.Context, actor Actor, issueID uuid.UUID) (*dto.IssueResponse, error)
	ListIssues(ctx context.Context, actor Actor, templateID uuid.UUID, page, limit int) (*dto.PaginatedIssuesResponse, error)
	UpdateIssue(ctx context.Context, actor Actor, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error)
	ChangeState(ctx context.Context, actor Actor, issueID uuid.UUID, req *dto.ChangeStateRequest) (*dto.IssueResponse, error)
	GetAvailableTransitions(ctx context.Context, actor Actor, issueID uuid.UUID) ([]*dto.AvailableTransitionResponse, error)
}

type issueServiceImpl struct {
	issueRepo repository.IssueRepository
	groupRepo repository.GroupRepository
	cache     WorkflowCache
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewIssueService creates a new instance of IssueService
func NewIssueService(issueRepo repository.IssueRepository, groupRepo repository.GroupRepository, cache WorkflowCache, m *metrics.Metrics, logger *zap.Logger) IssueService {
	return &issueServiceImpl{
		issueRepo: issueRepo,
		groupRepo: groupRepo,
		cache:     cache,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

var permissionViewIssues = workflow.Permission(domain.TemplatePermissionViewIssues)

// CreateIssue creates an issue in the initial state of a template
func (s *issueServiceImpl) CreateIssue(ctx context.Context, actor Actor, req *dto.CreateIssueRequest) (*dto.IssueResponse, error) {
	model, err := s.model(ctx, req.TemplateID)
	if err != nil {
		return nil, err
	}
	principal, err := s.principal(ctx, actor)
	if err != nil {
		return nil, err
	}
	values, err := parseValues(req.Values)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()

	out, err := s.apply(ctx, model, workflow.Request{
		Principal:   principal,
		Values:      values,
		Responsible: req.ResponsibleID,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	issue := &domain.Issue{
		TemplateID:    model.Template.ID,
		StateID:       out.StateID,
		AuthorID:      actor.UserID,
		ResponsibleID: out.ResponsibleID,
		Subject:       req.Subject,
	}
	if out.Closed {
		issue.ClosedAt = &now
	}
	if err := s.issueRepo.Create(ctx, issue, out.Values); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create issue", err.Error())
	}
	// the first issue locks the template
	if !model.Template.Locked {
		invalidate(ctx, s.cache, model.Template.ID, s.logger)
	}
	if s.metrics != nil {
		s.metrics.IncrementIssueCreated()
	}

	s.logger.Info("Issue created",
		zap.String("issue_id", issue.ID.String()),
		zap.String("template_id", issue.TemplateID.String()),
		zap.String("author_id", actor.UserID.String()))
	return s.toIssueResponse(model, principal.ForIssue(issue), issue), nil
}

// GetIssue retrieves an issue with the field values the caller may read
func (s *issueServiceImpl) GetIssue(ctx context.Context, actor Actor, issueID uuid.UUID) (*dto.IssueResponse, error) {
	issue, model, principal, err := s.load(ctx, actor, issueID)
	if err != nil {
		return nil, err
	}
	p := principal.ForIssue(issue)
	if !model.Matrix.IsGranted(p, permissionViewIssues, workflow.TemplateSubject(model.Template.ID)) {
		return nil, response.NewForbiddenError("Viewing issues is not granted", "")
	}
	return s.toIssueResponse(model, p, issue), nil
}

// ListIssues returns one page of issues of a template. Issues the caller may
// not view are left out of the page; total counts every issue.
func (s *issueServiceImpl) ListIssues(ctx context.Context, actor Actor, templateID uuid.UUID, page, limit int) (*dto.PaginatedIssuesResponse, error) {
	model, err := s.model(ctx, templateID)
	if err != nil {
		return nil, err
	}
	principal, err := s.principal(ctx, actor)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	issues, total, err := s.issueRepo.FindByTemplate(ctx, templateID, page, limit)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch issues", err.Error())
	}

	subject := workflow.TemplateSubject(templateID)
	responses := make([]dto.IssueResponse, 0, len(issues))
	for _, issue := range issues {
		p := principal.ForIssue(issue)
		if !model.Matrix.IsGranted(p, permissionViewIssues, subject) {
			continue
		}
		responses = append(responses, *s.toIssueResponse(model, p, issue))
	}
	return &dto.PaginatedIssuesResponse{
		Issues: responses,
		Total:  total,
		Page:   page,
		Limit:  limit,
	}, nil
}

// UpdateIssue edits the subject and the fields of the current state
func (s *issueServiceImpl) UpdateIssue(ctx context.Context, actor Actor, issueID uuid.UUID, req *dto.UpdateIssueRequest) (*dto.IssueResponse, error) {
	issue, model, principal, err := s.load(ctx, actor, issueID)
	if err != nil {
		return nil, err
	}
	values, err := parseValues(req.Values)
	if err != nil {
		return nil, err
	}

	out, err := s.apply(ctx, model, workflow.Request{
		Issue:     issue,
		Principal: principal,
		Values:    values,
		Now:       s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if req.Subject != nil {
		issue.Subject = *req.Subject
	}
	if err := s.issueRepo.Update(ctx, issue, out.Values); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update issue", err.Error())
	}
	return s.toIssueResponse(model, principal.ForIssue(issue), issue), nil
}

// ChangeState moves an issue along a declared transition, writing the fields
// of the target state and applying its responsible policy
func (s *issueServiceImpl) ChangeState(ctx context.Context, actor Actor, issueID uuid.UUID, req *dto.ChangeStateRequest) (*dto.IssueResponse, error) {
	issue, model, principal, err := s.load(ctx, actor, issueID)
	if err != nil {
		return nil, err
	}
	values, err := parseValues(req.Values)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	from := issue.StateID

	target := req.StateID
	out, err := s.apply(ctx, model, workflow.Request{
		Issue:       issue,
		TargetState: &target,
		Principal:   principal,
		Values:      values,
		Responsible: req.ResponsibleID,
		Now:         now,
	})
	if err != nil {
		s.recordTransition(err)
		return nil, err
	}

	issue.StateID = out.StateID
	issue.ResponsibleID = out.ResponsibleID
	if out.Closed {
		issue.ClosedAt = &now
	} else {
		issue.ClosedAt = nil
	}
	if err := s.issueRepo.Update(ctx, issue, out.Values); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to change issue state", err.Error())
	}
	s.recordTransition(nil)

	s.logger.Info("Issue state changed",
		zap.String("issue_id", issue.ID.String()),
		zap.String("from_state_id", from.String()),
		zap.String("to_state_id", out.StateID.String()),
		zap.Bool("closed", out.Closed))
	return s.toIssueResponse(model, principal.ForIssue(issue), issue), nil
}

// GetAvailableTransitions lists the states the caller may move an issue to
func (s *issueServiceImpl) GetAvailableTransitions(ctx context.Context, actor Actor, issueID uuid.UUID) ([]*dto.AvailableTransitionResponse, error) {
	issue, model, principal, err := s.load(ctx, actor, issueID)
	if err != nil {
		return nil, err
	}

	states := model.Graph.Transitions(model.Matrix, principal.ForIssue(issue), issue.StateID)
	responses := make([]*dto.AvailableTransitionResponse, 0, len(states))
	for _, state := range states {
		responses = append(responses, &dto.AvailableTransitionResponse{
			StateID:     state.ID,
			Name:        state.Name,
			Type:        string(state.Type),
			Responsible: string(state.Responsible),
		})
	}
	return responses, nil
}

// apply resolves the referenced issues and runs the executor
func (s *issueServiceImpl) apply(ctx context.Context, model *workflow.Model, req workflow.Request) (*workflow.Outcome, error) {
	existing, err := s.issueRepo.FindExistingIDs(ctx, model.IssueReferences(req.Values))
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to resolve issue references", err.Error())
	}
	req.ExistingIssues = existing

	out, err := model.Apply(req)
	if err != nil {
		var validationErr *workflow.ValidationError
		if errors.As(err, &validationErr) && s.metrics != nil {
			for _, fe := range validationErr.Fields {
				s.metrics.RecordValidationFailure(string(fe.Code))
			}
		}
		return nil, toAppError(err, "")
	}
	return out, nil
}

func (s *issueServiceImpl) recordTransition(err error) {
	if s.metrics == nil {
		return
	}
	var appErr *response.AppError
	switch {
	case err == nil:
		s.metrics.RecordTransition(metrics.TransitionApplied)
	case errors.As(err, &appErr) && appErr.Code == response.ErrCodeValidation:
		s.metrics.RecordTransition(metrics.TransitionInvalid)
	default:
		s.metrics.RecordTransition(metrics.TransitionRejected)
	}
}

// load fetches an issue, the model of its template and the caller as principal
func (s *issueServiceImpl) load(ctx context.Context, actor Actor, issueID uuid.UUID) (*domain.Issue, *workflow.Model, workflow.Principal, error) {
	issue, err := s.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, nil, workflow.Principal{}, toAppError(err, "Issue not found")
	}
	model, err := s.model(ctx, issue.TemplateID)
	if err != nil {
		return nil, nil, workflow.Principal{}, err
	}
	principal, err := s.principal(ctx, actor)
	if err != nil {
		return nil, nil, workflow.Principal{}, err
	}
	return issue, model, principal, nil
}

func (s *issueServiceImpl) model(ctx context.Context, templateID uuid.UUID) (*workflow.Model, error) {
	model, err := s.cache.Model(ctx, templateID)
	if err != nil {
		return nil, toAppError(err, "Template not found")
	}
	return model, nil
}

// principal resolves the caller's group memberships
func (s *issueServiceImpl) principal(ctx context.Context, actor Actor) (workflow.Principal, error) {
	groups, err := s.groupRepo.FindGroupIDsByUser(ctx, actor.UserID)
	if err != nil {
		return workflow.Principal{}, response.NewAppError(response.ErrCodeInternal, "Failed to fetch group memberships", err.Error())
	}
	roles := make([]domain.Role, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, domain.Role(r))
	}
	return workflow.Principal{UserID: actor.UserID, Roles: roles, Groups: groups}, nil
}

// parseValues keys submitted values by field id
func parseValues(raw map[string]interface{}) (map[uuid.UUID]any, error) {
	values := make(map[uuid.UUID]any, len(raw))
	for key, v := range raw {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, response.NewValidationError("Invalid field ID", key)
		}
		values[id] = v
	}
	return values, nil
}

// toIssueResponse lists the stored values of live fields p may read, in
// state and position order
func (s *issueServiceImpl) toIssueResponse(model *workflow.Model, p workflow.Principal, issue *domain.Issue) *dto.IssueResponse {
	stored := make(map[uuid.UUID]*string, len(issue.Values))
	for _, v := range issue.Values {
		stored[v.FieldID] = v.Value
	}

	values := make([]dto.FieldValueResponse, 0, len(stored))
	for _, state := range model.Graph.States() {
		for _, def := range model.StateFields(state.ID) {
			value, ok := stored[def.ID]
			if !ok || !model.Matrix.IsGranted(p, workflow.PermissionRead, workflow.FieldSubject(def.ID)) {
				continue
			}
			values = append(values, dto.FieldValueResponse{
				FieldID: def.ID,
				Name:    def.Name,
				Type:    string(def.Type),
				Value:   value,
				Display: displayValue(model, def, value),
			})
		}
	}

	var stateName string
	if state, ok := model.Graph.State(issue.StateID); ok {
		stateName = state.Name
	}
	return &dto.IssueResponse{
		ID:            issue.ID,
		TemplateID:    issue.TemplateID,
		StateID:       issue.StateID,
		StateName:     stateName,
		AuthorID:      issue.AuthorID,
		ResponsibleID: issue.ResponsibleID,
		Subject:       issue.Subject,
		ClosedAt:      issue.ClosedAt,
		Values:        values,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
	}
}

// displayValue renders list items by their text and everything else
// through the field's display transform
func displayValue(model *workflow.Model, def fieldtype.Definition, value *string) *string {
	if value == nil {
		return nil
	}
	if def.Type == domain.FieldTypeList {
		for _, item := range model.ListItems(def.ID) {
			if item.ID.String() == *value {
				text := item.Text
				return &text
			}
		}
		return value
	}
	display := fieldtype.Display(def, *value)
	return &display
}

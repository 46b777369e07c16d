package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"issue-workflow-api/internal/domain"
	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/repository"
	"issue-workflow-api/internal/response"
)

// GroupService defines the interface for group business logic
type GroupService interface {
	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetGroup(ctx context.Context, groupID uuid.UUID) (*dto.GroupResponse, error)
	ListGroups(ctx context.Context, projectID *uuid.UUID) ([]*dto.GroupResponse, error)
	UpdateGroup(ctx context.Context, groupID uuid.UUID, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, groupID uuid.UUID) error
	AddMembers(ctx context.Context, groupID uuid.UUID, req *dto.GroupMembersRequest) (*dto.GroupResponse, error)
	RemoveMembers(ctx context.Context, groupID uuid.UUID, req *dto.GroupMembersRequest) (*dto.GroupResponse, error)
}

type groupServiceImpl struct {
	groupRepo   repository.GroupRepository
	projectRepo repository.ProjectRepository
	cache       WorkflowCache
	logger      *zap.Logger
}

// NewGroupService creates a new instance of GroupService
func NewGroupService(groupRepo repository.GroupRepository, projectRepo repository.ProjectRepository, cache WorkflowCache, logger *zap.Logger) GroupService {
	return &groupServiceImpl{
		groupRepo:   groupRepo,
		projectRepo: projectRepo,
		cache:       cache,
		logger:      logger,
	}
}

// CreateGroup creates a global group, or a local one when a project is given
func (s *groupServiceImpl) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	if req.ProjectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *req.ProjectID); err != nil {
			return nil, toAppError(err, "Project not found")
		}
	}

	group := &domain.Group{
		ProjectID:   req.ProjectID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create group", err.Error())
	}

	s.logger.Info("Group created",
		zap.String("group_id", group.ID.String()),
		zap.Bool("global", group.ProjectID == nil))
	return toGroupResponse(group), nil
}

// GetGroup retrieves a group with its members
func (s *groupServiceImpl) GetGroup(ctx context.Context, groupID uuid.UUID) (*dto.GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, toAppError(err, "Group not found")
	}
	return toGroupResponse(group), nil
}

// ListGroups retrieves the global groups and, for a project, its local groups.
// Members are not listed.
func (s *groupServiceImpl) ListGroups(ctx context.Context, projectID *uuid.UUID) ([]*dto.GroupResponse, error) {
	if projectID != nil {
		if _, err := s.projectRepo.FindByID(ctx, *projectID); err != nil {
			return nil, toAppError(err, "Project not found")
		}
	}
	groups, err := s.groupRepo.FindVisible(ctx, projectID)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to fetch groups", err.Error())
	}

	responses := make([]*dto.GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, toGroupResponse(group))
	}
	return responses, nil
}

func (s *groupServiceImpl) UpdateGroup(ctx context.Context, groupID uuid.UUID, req *dto.UpdateGroupRequest) (*dto.GroupResponse, error) {
	group, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, toAppError(err, "Group not found")
	}
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Description != nil {
		group.Description = *req.Description
	}
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to update group", err.Error())
	}
	return toGroupResponse(group), nil
}

// DeleteGroup deletes a group with its memberships and grants
func (s *groupServiceImpl) DeleteGroup(ctx context.Context, groupID uuid.UUID) error {
	if err := s.groupRepo.Delete(ctx, groupID); err != nil {
		return toAppError(err, "Group not found")
	}
	s.invalidateAll(ctx)
	s.logger.Info("Group deleted", zap.String("group_id", groupID.String()))
	return nil
}

func (s *groupServiceImpl) AddMembers(ctx context.Context, groupID uuid.UUID, req *dto.GroupMembersRequest) (*dto.GroupResponse, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return nil, toAppError(err, "Group not found")
	}
	if err := s.groupRepo.AddMembers(ctx, groupID, req.UserIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to add members", err.Error())
	}
	s.invalidateAll(ctx)
	return s.GetGroup(ctx, groupID)
}

func (s *groupServiceImpl) RemoveMembers(ctx context.Context, groupID uuid.UUID, req *dto.GroupMembersRequest) (*dto.GroupResponse, error) {
	if _, err := s.groupRepo.FindByID(ctx, groupID); err != nil {
		return nil, toAppError(err, "Group not found")
	}
	if err := s.groupRepo.RemoveMembers(ctx, groupID, req.UserIDs); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to remove members", err.Error())
	}
	s.invalidateAll(ctx)
	return s.GetGroup(ctx, groupID)
}

// invalidateAll drops every cached model, since responsible group members
// are part of the snapshots.
func (s *groupServiceImpl) invalidateAll(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Error("Failed to invalidate workflow cache", zap.Error(err))
	}
}

func toGroupResponse(group *domain.Group) *dto.GroupResponse {
	members := make([]uuid.UUID, 0, len(group.Members))
	for _, m := range group.Members {
		members = append(members, m.UserID)
	}
	return &dto.GroupResponse{
		ID:          group.ID,
		ProjectID:   group.ProjectID,
		Name:        group.Name,
		Description: group.Description,
		Members:     members,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}

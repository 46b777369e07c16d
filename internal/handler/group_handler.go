package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type GroupHandler struct {
	groupService service.GroupService
}

func NewGroupHandler(groupService service.GroupService) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
	}
}

// CreateGroup godoc
// @Summary      그룹 생성
// @Description  projectId가 없으면 전역 그룹을 만듭니다
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateGroupRequest true "그룹 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.GroupResponse} "그룹 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 그룹 이름"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups [post]
// @Security     BearerAuth
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, group)
}

// ListGroups godoc
// @Summary      전역 그룹 목록 조회
// @Tags         groups
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.GroupResponse} "그룹 목록 조회 성공"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups [get]
// @Security     BearerAuth
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupService.ListGroups(c.Request.Context(), nil)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, groups)
}

// GetGroup godoc
// @Summary      그룹 조회
// @Tags         groups
// @Produce      json
// @Param        groupId path string true "Group ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.GroupResponse} "그룹 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups/{groupId} [get]
// @Security     BearerAuth
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, group)
}

// UpdateGroup godoc
// @Summary      그룹 수정
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupId path string true "Group ID (UUID)"
// @Param        request body dto.UpdateGroupRequest true "그룹 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.GroupResponse} "그룹 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "그룹을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 그룹 이름"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups/{groupId} [put]
// @Security     BearerAuth
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req dto.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	group, err := h.groupService.UpdateGroup(c.Request.Context(), groupID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, group)
}

// DeleteGroup godoc
// @Summary      그룹 삭제
// @Description  그룹에 부여된 권한과 전이도 함께 사라집니다
// @Tags         groups
// @Produce      json
// @Param        groupId path string true "Group ID (UUID)"
// @Success      200 {object} response.SuccessResponse "그룹 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups/{groupId} [delete]
// @Security     BearerAuth
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), groupID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "Group deleted successfully")
}

// AddMembers godoc
// @Summary      그룹 멤버 추가
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupId path string true "Group ID (UUID)"
// @Param        request body dto.GroupMembersRequest true "멤버 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.GroupResponse} "멤버 추가 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups/{groupId}/members [post]
// @Security     BearerAuth
func (h *GroupHandler) AddMembers(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req dto.GroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	group, err := h.groupService.AddMembers(c.Request.Context(), groupID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, group)
}

// RemoveMembers godoc
// @Summary      그룹 멤버 제거
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        groupId path string true "Group ID (UUID)"
// @Param        request body dto.GroupMembersRequest true "멤버 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.GroupResponse} "멤버 제거 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /groups/{groupId}/members [delete]
// @Security     BearerAuth
func (h *GroupHandler) RemoveMembers(c *gin.Context) {
	groupID, ok := parseGroupID(c)
	if !ok {
		return
	}

	var req dto.GroupMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	group, err := h.groupService.RemoveMembers(c.Request.Context(), groupID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, group)
}

func parseGroupID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "groupId", "Invalid group ID")
}

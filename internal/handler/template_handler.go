package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type TemplateHandler struct {
	templateService   service.TemplateService
	stateService      service.StateService
	permissionService service.PermissionService
}

func NewTemplateHandler(templateService service.TemplateService, stateService service.StateService, permissionService service.PermissionService) *TemplateHandler {
	return &TemplateHandler{
		templateService:   templateService,
		stateService:      stateService,
		permissionService: permissionService,
	}
}

// CreateTemplate godoc
// @Summary      템플릿 생성
// @Description  프로젝트에 새로운 이슈 템플릿을 생성합니다
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateTemplateRequest true "템플릿 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.TemplateResponse} "템플릿 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 템플릿 이름 또는 접두어"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates [post]
// @Security     BearerAuth
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	template, err := h.templateService.CreateTemplate(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, template)
}

// GetTemplate godoc
// @Summary      템플릿 조회
// @Description  템플릿과 상태 목록을 조회합니다
// @Tags         templates
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TemplateResponse} "템플릿 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId} [get]
// @Security     BearerAuth
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	template, err := h.templateService.GetTemplate(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, template)
}

// UpdateTemplate godoc
// @Summary      템플릿 수정
// @Description  템플릿 속성을 수정합니다. 잠긴 템플릿도 수정할 수 있습니다
// @Tags         templates
// @Accept       json
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Param        request body dto.UpdateTemplateRequest true "템플릿 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.TemplateResponse} "템플릿 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 템플릿 이름 또는 접두어"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId} [put]
// @Security     BearerAuth
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	template, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, template)
}

// DeleteTemplate godoc
// @Summary      템플릿 삭제
// @Description  이슈가 없는 템플릿을 상태, 필드와 함께 삭제합니다
// @Tags         templates
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse "템플릿 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "이슈가 있는 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId} [delete]
// @Security     BearerAuth
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "Template deleted successfully")
}

// LockTemplate godoc
// @Summary      템플릿 잠금
// @Description  템플릿을 잠가 상태와 필드 구조 변경을 막습니다
// @Tags         templates
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TemplateResponse} "템플릿 잠금 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/lock [post]
// @Security     BearerAuth
func (h *TemplateHandler) LockTemplate(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	template, err := h.templateService.LockTemplate(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, template)
}

// UnlockTemplate godoc
// @Summary      템플릿 잠금 해제
// @Description  이슈가 없는 템플릿의 잠금을 해제합니다
// @Tags         templates
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.TemplateResponse} "템플릿 잠금 해제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "이슈가 있는 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/unlock [post]
// @Security     BearerAuth
func (h *TemplateHandler) UnlockTemplate(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	template, err := h.templateService.UnlockTemplate(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, template)
}

// ListStates godoc
// @Summary      템플릿의 상태 목록 조회
// @Description  템플릿에 속한 상태를 조회합니다
// @Tags         templates
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.StateResponse} "상태 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/states [get]
// @Security     BearerAuth
func (h *TemplateHandler) ListStates(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	states, err := h.stateService.ListStates(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, states)
}

// GetPermissions godoc
// @Summary      템플릿 권한 조회
// @Description  템플릿 권한별로 부여된 역할과 그룹을 조회합니다
// @Tags         permissions
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.PermissionResponse} "권한 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/permissions [get]
// @Security     BearerAuth
func (h *TemplateHandler) GetPermissions(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	permissions, err := h.permissionService.GetTemplatePermissions(c.Request.Context(), templateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permissions)
}

// SetRolePermission godoc
// @Summary      템플릿 권한의 역할 교체
// @Description  권한을 가진 역할 목록을 통째로 교체합니다
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Param        request body dto.SetRolePermissionRequest true "역할 권한 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PermissionResponse} "권한 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/permissions/roles [put]
// @Security     BearerAuth
func (h *TemplateHandler) SetRolePermission(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	var req dto.SetRolePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	permission, err := h.permissionService.SetTemplateRolePermission(c.Request.Context(), templateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permission)
}

// SetGroupPermission godoc
// @Summary      템플릿 권한의 그룹 교체
// @Description  권한을 가진 그룹 목록을 통째로 교체합니다
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Param        request body dto.SetGroupPermissionRequest true "그룹 권한 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PermissionResponse} "권한 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿 또는 그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/permissions/groups [put]
// @Security     BearerAuth
func (h *TemplateHandler) SetGroupPermission(c *gin.Context) {
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	var req dto.SetGroupPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	permission, err := h.permissionService.SetTemplateGroupPermission(c.Request.Context(), templateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permission)
}

func parseTemplateID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "templateId", "Invalid template ID")
}

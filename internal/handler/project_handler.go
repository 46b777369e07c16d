package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type ProjectHandler struct {
	projectService  service.ProjectService
	templateService service.TemplateService
	groupService    service.GroupService
}

func NewProjectHandler(projectService service.ProjectService, templateService service.TemplateService, groupService service.GroupService) *ProjectHandler {
	return &ProjectHandler{
		projectService:  projectService,
		templateService: templateService,
		groupService:    groupService,
	}
}

// CreateProject godoc
// @Summary      프로젝트 생성
// @Description  새로운 프로젝트를 생성합니다
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateProjectRequest true "프로젝트 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.ProjectResponse} "프로젝트 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      409 {object} response.ErrorResponse "중복된 프로젝트 이름"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects [post]
// @Security     BearerAuth
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, project)
}

// ListProjects godoc
// @Summary      프로젝트 목록 조회
// @Description  모든 프로젝트를 조회합니다
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProjectResponse} "프로젝트 목록 조회 성공"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, projects)
}

// GetProject godoc
// @Summary      프로젝트 조회
// @Description  프로젝트 상세 정보를 조회합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse} "프로젝트 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects/{projectId} [get]
// @Security     BearerAuth
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary      프로젝트 수정
// @Description  프로젝트 이름, 설명, 정지 여부를 수정합니다
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.UpdateProjectRequest true "프로젝트 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse} "프로젝트 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 프로젝트 이름"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects/{projectId} [put]
// @Security     BearerAuth
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary      프로젝트 삭제
// @Description  템플릿이 없는 프로젝트를 삭제합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse "프로젝트 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "템플릿이 남아 있음"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects/{projectId} [delete]
// @Security     BearerAuth
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "Project deleted successfully")
}

// ListTemplates godoc
// @Summary      프로젝트의 템플릿 목록 조회
// @Description  프로젝트에 속한 템플릿을 조회합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TemplateResponse} "템플릿 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "프로젝트를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects/{projectId}/templates [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListTemplates(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	templates, err := h.templateService.ListTemplates(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, templates)
}

// ListGroups godoc
// @Summary      프로젝트에서 사용 가능한 그룹 조회
// @Description  전역 그룹과 프로젝트 그룹을 함께 조회합니다
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.GroupResponse} "그룹 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /projects/{projectId}/groups [get]
// @Security     BearerAuth
func (h *ProjectHandler) ListGroups(c *gin.Context) {
	projectID, ok := parseProjectID(c)
	if !ok {
		return
	}

	groups, err := h.groupService.ListGroups(c.Request.Context(), &projectID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, groups)
}

func parseProjectID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "projectId", "Invalid project ID")
}

// parseID reads a UUID path parameter; on failure a 400 has been written
func parseID(c *gin.Context, param, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, message)
		return uuid.Nil, false
	}
	return id, true
}

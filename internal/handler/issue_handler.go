package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{
		issueService: issueService,
	}
}

// CreateIssue godoc
// @Summary      이슈 생성
// @Description  템플릿의 initial 상태로 이슈를 만듭니다. values는 initial 상태 필드 ID를 키로 합니다
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateIssueRequest true "이슈 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.IssueResponse} "이슈 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 필드 값 오류"
// @Failure      401 {object} response.ErrorResponse "인증 실패"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      422 {object} response.ErrorResponse "담당자 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /issues [post]
// @Security     BearerAuth
func (h *IssueHandler) CreateIssue(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}

	var req dto.CreateIssueRequest
	if err := bindValues(c, &req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.CreateIssue(c.Request.Context(), auth.Actor(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, issue)
}

// GetIssue godoc
// @Summary      이슈 조회
// @Description  읽기 권한이 있는 필드 값만 포함됩니다
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.IssueResponse} "이슈 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "이슈를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /issues/{issueId} [get]
// @Security     BearerAuth
func (h *IssueHandler) GetIssue(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	issueID, ok := parseIssueID(c)
	if !ok {
		return
	}

	issue, err := h.issueService.GetIssue(c.Request.Context(), auth.Actor(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issue)
}

// ListIssues godoc
// @Summary      템플릿의 이슈 목록 조회
// @Tags         issues
// @Produce      json
// @Param        templateId path string true "Template ID (UUID)"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Items per page" default(20)
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedIssuesResponse} "이슈 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /templates/{templateId}/issues [get]
// @Security     BearerAuth
func (h *IssueHandler) ListIssues(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	templateID, ok := parseTemplateID(c)
	if !ok {
		return
	}

	page := 1
	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	issues, err := h.issueService.ListIssues(c.Request.Context(), auth.Actor(), templateID, page, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issues)
}

// UpdateIssue godoc
// @Summary      이슈 수정
// @Description  제목과 현재 상태의 필드 값을 수정합니다
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.UpdateIssueRequest true "이슈 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.IssueResponse} "이슈 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 필드 값 오류"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "이슈를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /issues/{issueId} [put]
// @Security     BearerAuth
func (h *IssueHandler) UpdateIssue(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	issueID, ok := parseIssueID(c)
	if !ok {
		return
	}

	var req dto.UpdateIssueRequest
	if err := bindValues(c, &req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.UpdateIssue(c.Request.Context(), auth.Actor(), issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issue)
}

// ChangeState godoc
// @Summary      이슈 상태 변경
// @Description  이슈를 다른 상태로 옮깁니다. values는 대상 상태 필드 ID를 키로 합니다
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Param        request body dto.ChangeStateRequest true "상태 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.IssueResponse} "상태 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 필드 값 오류"
// @Failure      403 {object} response.ErrorResponse "권한 없음"
// @Failure      404 {object} response.ErrorResponse "이슈를 찾을 수 없음"
// @Failure      422 {object} response.ErrorResponse "허용되지 않는 전이 또는 담당자 필요"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /issues/{issueId}/state [post]
// @Security     BearerAuth
func (h *IssueHandler) ChangeState(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	issueID, ok := parseIssueID(c)
	if !ok {
		return
	}

	var req dto.ChangeStateRequest
	if err := bindValues(c, &req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	issue, err := h.issueService.ChangeState(c.Request.Context(), auth.Actor(), issueID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, issue)
}

// GetAvailableTransitions godoc
// @Summary      가능한 전이 조회
// @Description  호출자가 이슈를 옮길 수 있는 상태 목록을 조회합니다
// @Tags         issues
// @Produce      json
// @Param        issueId path string true "Issue ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.AvailableTransitionResponse} "전이 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "이슈를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /issues/{issueId}/transitions [get]
// @Security     BearerAuth
func (h *IssueHandler) GetAvailableTransitions(c *gin.Context) {
	auth, ok := ExtractAuthData(c)
	if !ok {
		return
	}
	issueID, ok := parseIssueID(c)
	if !ok {
		return
	}

	transitions, err := h.issueService.GetAvailableTransitions(c.Request.Context(), auth.Actor(), issueID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, transitions)
}

func parseIssueID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "issueId", "Invalid issue ID")
}

var errEmptyBody = errors.New("empty request body")

// bindValues binds a request carrying field values. Numbers are kept as
// json.Number so decimals never pass through float64.
func bindValues(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil {
		return errEmptyBody
	}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	if err := decoder.Decode(obj); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

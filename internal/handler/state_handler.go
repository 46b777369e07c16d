package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type StateHandler struct {
	stateService service.StateService
	fieldService service.FieldService
}

func NewStateHandler(stateService service.StateService, fieldService service.FieldService) *StateHandler {
	return &StateHandler{
		stateService: stateService,
		fieldService: fieldService,
	}
}

// CreateState godoc
// @Summary      상태 생성
// @Description  템플릿에 상태를 추가합니다. 템플릿의 첫 상태는 initial이어야 합니다
// @Tags         states
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateStateRequest true "상태 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.StateResponse} "상태 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "템플릿을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 상태 이름"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states [post]
// @Security     BearerAuth
func (h *StateHandler) CreateState(c *gin.Context) {
	var req dto.CreateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	state, err := h.stateService.CreateState(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, state)
}

// GetState godoc
// @Summary      상태 조회
// @Tags         states
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.StateResponse} "상태 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId} [get]
// @Security     BearerAuth
func (h *StateHandler) GetState(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	state, err := h.stateService.GetState(c.Request.Context(), stateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, state)
}

// UpdateState godoc
// @Summary      상태 수정
// @Description  상태의 이름, 종류, 담당자 규칙, 다음 상태를 수정합니다
// @Tags         states
// @Accept       json
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Param        request body dto.UpdateStateRequest true "상태 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.StateResponse} "상태 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId} [put]
// @Security     BearerAuth
func (h *StateHandler) UpdateState(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	var req dto.UpdateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	state, err := h.stateService.UpdateState(c.Request.Context(), stateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, state)
}

// DeleteState godoc
// @Summary      상태 삭제
// @Tags         states
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Success      200 {object} response.SuccessResponse "상태 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId} [delete]
// @Security     BearerAuth
func (h *StateHandler) DeleteState(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	if err := h.stateService.DeleteState(c.Request.Context(), stateID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "State deleted successfully")
}

// SetResponsibleGroups godoc
// @Summary      담당 후보 그룹 교체
// @Description  상태의 담당자 후보 그룹을 교체합니다. 그룹은 전역 그룹이거나 같은 프로젝트의 그룹이어야 합니다
// @Tags         states
// @Accept       json
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Param        request body dto.SetResponsibleGroupsRequest true "담당 그룹 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.StateResponse} "담당 그룹 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태 또는 그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId}/responsible-groups [put]
// @Security     BearerAuth
func (h *StateHandler) SetResponsibleGroups(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	var req dto.SetResponsibleGroupsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	state, err := h.stateService.SetResponsibleGroups(c.Request.Context(), stateID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, state)
}

// ListTransitions godoc
// @Summary      전이 목록 조회
// @Description  상태에서 나가는 선언된 전이를 조회합니다
// @Tags         states
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.TransitionResponse} "전이 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId}/transitions [get]
// @Security     BearerAuth
func (h *StateHandler) ListTransitions(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	transitions, err := h.stateService.ListTransitions(c.Request.Context(), stateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, transitions)
}

// SetTransition godoc
// @Summary      전이 권한 교체
// @Description  두 상태 사이 전이를 허용할 역할과 그룹을 교체합니다. 둘 다 비우면 전이가 제거됩니다
// @Tags         states
// @Accept       json
// @Produce      json
// @Param        stateId path string true "From State ID (UUID)"
// @Param        toStateId path string true "To State ID (UUID)"
// @Param        request body dto.SetTransitionRequest true "전이 권한 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.TransitionResponse} "전이 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      422 {object} response.ErrorResponse "허용되지 않는 전이"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId}/transitions/{toStateId} [put]
// @Security     BearerAuth
func (h *StateHandler) SetTransition(c *gin.Context) {
	fromID, ok := parseStateID(c)
	if !ok {
		return
	}
	toID, ok := parseID(c, "toStateId", "Invalid target state ID")
	if !ok {
		return
	}

	var req dto.SetTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	transition, err := h.stateService.SetTransition(c.Request.Context(), fromID, toID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, transition)
}

// ListFields godoc
// @Summary      상태의 필드 목록 조회
// @Description  제거되지 않은 필드를 위치 순서로 조회합니다
// @Tags         states
// @Produce      json
// @Param        stateId path string true "State ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.FieldResponse} "필드 목록 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /states/{stateId}/fields [get]
// @Security     BearerAuth
func (h *StateHandler) ListFields(c *gin.Context) {
	stateID, ok := parseStateID(c)
	if !ok {
		return
	}

	fields, err := h.fieldService.ListFields(c.Request.Context(), stateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, fields)
}

func parseStateID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "stateId", "Invalid state ID")
}

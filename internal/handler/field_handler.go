package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type FieldHandler struct {
	fieldService      service.FieldService
	permissionService service.PermissionService
}

func NewFieldHandler(fieldService service.FieldService, permissionService service.PermissionService) *FieldHandler {
	return &FieldHandler{
		fieldService:      fieldService,
		permissionService: permissionService,
	}
}

// CreateField godoc
// @Summary      필드 생성
// @Description  상태에 타입이 지정된 필드를 추가합니다. parameters는 타입별로 검증됩니다
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateFieldRequest true "필드 생성 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.FieldResponse} "필드 생성 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 잘못된 설정"
// @Failure      404 {object} response.ErrorResponse "상태를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 필드 이름"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields [post]
// @Security     BearerAuth
func (h *FieldHandler) CreateField(c *gin.Context) {
	var req dto.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.CreateField(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, field)
}

// ValidateConfig godoc
// @Summary      필드 설정 검증
// @Description  필드를 만들지 않고 타입별 설정을 검증하고 정규화된 값을 돌려줍니다
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        request body dto.ValidateFieldConfigRequest true "설정 검증 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ValidateFieldConfigResponse} "유효한 설정"
// @Failure      400 {object} response.ErrorResponse "잘못된 설정"
// @Router       /fields/validate-config [post]
// @Security     BearerAuth
func (h *FieldHandler) ValidateConfig(c *gin.Context) {
	var req dto.ValidateFieldConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	result, err := h.fieldService.ValidateConfig(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, result)
}

// GetField godoc
// @Summary      필드 조회
// @Description  제거된 필드도 조회할 수 있습니다
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse} "필드 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId} [get]
// @Security     BearerAuth
func (h *FieldHandler) GetField(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	field, err := h.fieldService.GetField(c.Request.Context(), fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// UpdateField godoc
// @Summary      필드 수정
// @Description  필드 이름, 설명, 필수 여부, 설정을 수정합니다. 타입은 바꿀 수 없습니다
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.UpdateFieldRequest true "필드 수정 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse} "필드 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청 또는 잘못된 설정"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId} [put]
// @Security     BearerAuth
func (h *FieldHandler) UpdateField(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.UpdateField(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// SetFieldPosition godoc
// @Summary      필드 위치 변경
// @Tags         fields
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.SetFieldPositionRequest true "위치 변경 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.FieldResponse} "위치 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/position [put]
// @Security     BearerAuth
func (h *FieldHandler) SetFieldPosition(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	var req dto.SetFieldPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	field, err := h.fieldService.SetFieldPosition(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, field)
}

// RemoveField godoc
// @Summary      필드 제거
// @Description  필드를 제거 상태로 표시합니다. 저장된 값은 남아 있습니다
// @Tags         fields
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse "필드 제거 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId} [delete]
// @Security     BearerAuth
func (h *FieldHandler) RemoveField(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	if err := h.fieldService.RemoveField(c.Request.Context(), fieldID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "Field removed successfully")
}

// GetPermissions godoc
// @Summary      필드 권한 조회
// @Description  read와 write 권한을 가진 역할과 그룹을 조회합니다
// @Tags         permissions
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.PermissionResponse} "권한 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/permissions [get]
// @Security     BearerAuth
func (h *FieldHandler) GetPermissions(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	permissions, err := h.permissionService.GetFieldPermissions(c.Request.Context(), fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permissions)
}

// SetRolePermission godoc
// @Summary      필드 권한의 역할 교체
// @Description  역할은 필드마다 하나의 권한만 가집니다. write를 주면 같은 역할의 read가 대체됩니다
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.SetRolePermissionRequest true "역할 권한 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PermissionResponse} "권한 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/permissions/roles [put]
// @Security     BearerAuth
func (h *FieldHandler) SetRolePermission(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	var req dto.SetRolePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	permission, err := h.permissionService.SetFieldRolePermission(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permission)
}

// SetGroupPermission godoc
// @Summary      필드 권한의 그룹 교체
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.SetGroupPermissionRequest true "그룹 권한 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.PermissionResponse} "권한 변경 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드 또는 그룹을 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/permissions/groups [put]
// @Security     BearerAuth
func (h *FieldHandler) SetGroupPermission(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	var req dto.SetGroupPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	permission, err := h.permissionService.SetFieldGroupPermission(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, permission)
}

func parseFieldID(c *gin.Context) (uuid.UUID, bool) {
	return parseID(c, "fieldId", "Invalid field ID")
}

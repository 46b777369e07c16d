package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"issue-workflow-api/internal/dto"
	"issue-workflow-api/internal/response"
	"issue-workflow-api/internal/service"
)

type ListItemHandler struct {
	listItemService service.ListItemService
}

func NewListItemHandler(listItemService service.ListItemService) *ListItemHandler {
	return &ListItemHandler{
		listItemService: listItemService,
	}
}

// ListListItems godoc
// @Summary      목록 항목 조회
// @Description  list 필드의 항목을 값 순서로 조회합니다
// @Tags         list-items
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ListItemResponse} "항목 조회 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/items [get]
// @Security     BearerAuth
func (h *ListItemHandler) ListListItems(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	items, err := h.listItemService.ListListItems(c.Request.Context(), fieldID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, items)
}

// CreateListItem godoc
// @Summary      목록 항목 추가
// @Description  값과 텍스트(대소문자 무시)는 필드 안에서 유일해야 합니다
// @Tags         list-items
// @Accept       json
// @Produce      json
// @Param        fieldId path string true "Field ID (UUID)"
// @Param        request body dto.ListItemRequest true "항목 요청"
// @Success      201 {object} response.SuccessResponse{data=dto.ListItemResponse} "항목 추가 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "필드를 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 값 또는 텍스트"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /fields/{fieldId}/items [post]
// @Security     BearerAuth
func (h *ListItemHandler) CreateListItem(c *gin.Context) {
	fieldID, ok := parseFieldID(c)
	if !ok {
		return
	}

	var req dto.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	item, err := h.listItemService.CreateListItem(c.Request.Context(), fieldID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, item)
}

// UpdateListItem godoc
// @Summary      목록 항목 수정
// @Tags         list-items
// @Accept       json
// @Produce      json
// @Param        itemId path string true "Item ID (UUID)"
// @Param        request body dto.ListItemRequest true "항목 요청"
// @Success      200 {object} response.SuccessResponse{data=dto.ListItemResponse} "항목 수정 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "항목을 찾을 수 없음"
// @Failure      409 {object} response.ErrorResponse "중복된 값 또는 텍스트"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /list-items/{itemId} [put]
// @Security     BearerAuth
func (h *ListItemHandler) UpdateListItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId", "Invalid item ID")
	if !ok {
		return
	}

	var req dto.ListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
		return
	}

	item, err := h.listItemService.UpdateListItem(c.Request.Context(), itemID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, item)
}

// DeleteListItem godoc
// @Summary      목록 항목 삭제
// @Description  기본값으로 지정된 항목을 지우면 필드의 기본값도 해제됩니다
// @Tags         list-items
// @Produce      json
// @Param        itemId path string true "Item ID (UUID)"
// @Success      200 {object} response.SuccessResponse "항목 삭제 성공"
// @Failure      400 {object} response.ErrorResponse "잘못된 요청"
// @Failure      404 {object} response.ErrorResponse "항목을 찾을 수 없음"
// @Failure      423 {object} response.ErrorResponse "잠긴 템플릿"
// @Failure      500 {object} response.ErrorResponse "서버 에러"
// @Router       /list-items/{itemId} [delete]
// @Security     BearerAuth
func (h *ListItemHandler) DeleteListItem(c *gin.Context) {
	itemID, ok := parseID(c, "itemId", "Invalid item ID")
	if !ok {
		return
	}

	if err := h.listItemService.DeleteListItem(c.Request.Context(), itemID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SendSuccessWithMessage(c, http.StatusOK, nil, "List item deleted successfully")
}

package handler

import (
	"bytes"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookapp/internal/application/pricing"
	"github.com/xiebiao/bookapp/internal/interface/http/dto"
	"github.com/xiebiao/bookapp/internal/interface/http/middleware"
	"github.com/xiebiao/bookapp/pkg/response"
)

// DiscountHandler 折扣批处理入口
// requests不为nil时发布到消息队列由worker执行，否则同步执行
type DiscountHandler struct {
	runner   pricing.Runner
	requests *pricing.RequestPublisher
}

func NewDiscountHandler(runner pricing.Runner, requests *pricing.RequestPublisher) *DiscountHandler {
	return &DiscountHandler{runner: runner, requests: requests}
}

// DiscountResult 同步执行的结果，output为逐行输出
type DiscountResult struct {
	*pricing.DiscountReport
	Output string `json:"output"`
}

// Apply 按比例重新计算全部图书的折后价
// @Summary      应用折扣
// @Tags         折扣
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.DiscountRequest true "折扣比例(0-100)"
// @Success      200 {object} response.Response{data=DiscountResult} "同步执行完成"
// @Success      202 {object} response.Response{data=pricing.DiscountRequested} "已提交到消息队列"
// @Failure      400 {object} response.Response "比例不是整数"
// @Failure      403 {object} response.Response "无权限"
// @Failure      409 {object} response.Response "比例超出范围"
// @Failure      500 {object} response.Response "消息服务不可用"
// @Router       /api/v1/discounts [post]
func (h *DiscountHandler) Apply(c *gin.Context) {
	percentage, err := dto.BindPercentage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.requests != nil {
		evt, err := h.requests.Request(c.Request.Context(), percentage, middleware.GetUserID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, evt)
		return
	}

	var out bytes.Buffer
	report, err := h.runner.Execute(c.Request.Context(), percentage, &out)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithMessage(c, report.Summary(), &DiscountResult{DiscountReport: report, Output: out.String()})
}

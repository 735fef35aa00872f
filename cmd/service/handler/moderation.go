package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/response"
)

func (s *HttpSrv) BlockContent(c *gin.Context) {
	s.setBlocked(c, true)
}

func (s *HttpSrv) UnblockContent(c *gin.Context) {
	s.setBlocked(c, false)
}

func (s *HttpSrv) setBlocked(c *gin.Context, blocked bool) {
	id, _ := c.Params.Get("id")

	if err := v1.NewModerationLogic(c, s.Core).SetBlocked(id, blocked); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/response"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

func (s *HttpSrv) ResolveShare(c *gin.Context) {
	identifier, _ := c.Params.Get("identifier")

	res, err := v1.NewShareLogic(c, s.Core).Resolve(identifier)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

type ListShareTreeRequest struct {
	Path string `json:"path" form:"path"`
}

func (s *HttpSrv) ListShareTree(c *gin.Context) {
	var req ListShareTreeRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	identifier, _ := c.Params.Get("identifier")
	list, err := v1.NewShareLogic(c, s.Core).ListChildren(identifier, req.Path)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.ListResponse[types.ContentSummary]{
		List:  list,
		Total: int64(len(list)),
	})
}

func (s *HttpSrv) Explore(c *gin.Context) {
	var req PageRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewShareLogic(c, s.Core).Explore(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.ListResponse[types.ContentSummary]{
		List:  list,
		Total: total,
	})
}

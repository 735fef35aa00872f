package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/app/response"
	"github.com/leafshare/leafshare/pkg/types"
	"github.com/leafshare/leafshare/pkg/utils"
)

type CreateContentRequest struct {
	Title      string            `json:"title" binding:"required"`
	Body       string            `json:"body"`
	Type       types.ContentType `json:"type" binding:"omitempty,oneof=file folder"`
	Path       string            `json:"path" binding:"required"`
	Permission types.Permission  `json:"permission" binding:"omitempty,oneof=public unlisted private"`
	ExpiresAt  int64             `json:"expires_at"`
	CustomSlug string            `json:"custom_slug"`
	IsPublic   *bool             `json:"is_public"`
}

func (s *HttpSrv) CreateContent(c *gin.Context) {
	var req CreateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	res, err := v1.NewContentLogic(c, s.Core).Create(v1.CreateContentArgs{
		Title:      req.Title,
		Body:       req.Body,
		Type:       req.Type,
		Path:       req.Path,
		Permission: req.Permission,
		ExpiresAt:  req.ExpiresAt,
		CustomSlug: req.CustomSlug,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

func (s *HttpSrv) GetContent(c *gin.Context) {
	id, _ := c.Params.Get("id")

	res, err := v1.NewContentLogic(c, s.Core).Get(id)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, res)
}

type UpdateContentRequest struct {
	Title      *string           `json:"title"`
	Body       *string           `json:"body"`
	Path       *string           `json:"path"`
	Permission *types.Permission `json:"permission" binding:"omitempty,oneof=public unlisted private"`
	ExpiresAt  *int64            `json:"expires_at"`
}

func (s *HttpSrv) UpdateContent(c *gin.Context) {
	var req UpdateContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, _ := c.Params.Get("id")
	err := v1.NewContentLogic(c, s.Core).Update(id, v1.UpdateContentArgs{
		Title:      req.Title,
		Body:       req.Body,
		Path:       req.Path,
		Permission: req.Permission,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

func (s *HttpSrv) DeleteContent(c *gin.Context) {
	id, _ := c.Params.Get("id")

	if err := v1.NewContentLogic(c, s.Core).Delete(id); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, nil)
}

type ListContentRequest struct {
	PageRequest
	Type types.ContentType `json:"type" form:"type" binding:"omitempty,oneof=file folder"`
}

func (s *HttpSrv) ListContent(c *gin.Context) {
	var req ListContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	list, total, err := v1.NewContentLogic(c, s.Core).ListOwned(req.Type, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, response.ListResponse[types.OwnerContentItem]{
		List:  list,
		Total: total,
	})
}

type ShareContentRequest struct {
	CustomSlug string `json:"custom_slug"`
	IsPublic   *bool  `json:"is_public"`
}

type ShareContentResponse struct {
	Slug      string `json:"slug"`
	ShareCode string `json:"share_code"`
	URL       string `json:"url"`
}

func (s *HttpSrv) ShareContent(c *gin.Context) {
	var req ShareContentRequest
	if err := utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	id, _ := c.Params.Get("id")
	res, err := v1.NewContentLogic(c, s.Core).Share(id, v1.ShareContentArgs{
		CustomSlug: req.CustomSlug,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, ShareContentResponse{
		Slug:      res.Slug,
		ShareCode: res.ShareCode,
		URL:       genSharePageURL(s.Core.Cfg().Site.Domain, res.Slug),
	})
}

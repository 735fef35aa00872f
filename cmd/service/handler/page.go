package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	v1 "github.com/leafshare/leafshare/app/logic/v1"
	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/types"
)

const descriptionLength = 160

func genSharePageURL(domain, slug string) string {
	return strings.TrimRight(domain, "/") + "/share/" + slug
}

// BuildSharePage 服务端渲染的分享页，所有拒绝都渲染同一个 404 页面
func (s *HttpSrv) BuildSharePage(c *gin.Context) {
	identifier, _ := c.Params.Get("identifier")
	site := s.Core.Cfg().Site

	logic := v1.NewShareLogic(c, s.Core)
	res, err := logic.Resolve(identifier)
	if err != nil {
		s.renderNotFound(c, err)
		return
	}

	var children []types.ContentSummary
	if res.Type == types.CONTENT_TYPE_FOLDER {
		if children, err = logic.ListChildren(identifier, types.ROOT_PATH); err != nil {
			s.renderNotFound(c, err)
			return
		}
	}

	c.HTML(http.StatusOK, "share.html", gin.H{
		"siteTitle":       site.SiteTitle,
		"siteDescription": site.SiteDescription,
		"title":           res.Title,
		"description":     lo.Substring(strings.TrimSpace(res.Body), 0, descriptionLength),
		"body":            res.Body,
		"ownerName":       res.OwnerName,
		"isFolder":        res.Type == types.CONTENT_TYPE_FOLDER,
		"children":        children,
		"shareURL":        genSharePageURL(site.Domain, res.Slug),
		"updatedAt":       res.UpdatedAt,
	})
}

func (s *HttpSrv) renderNotFound(c *gin.Context, err error) {
	code := errors.HttpCode(err)
	if code != http.StatusInternalServerError {
		code = http.StatusNotFound
	}
	c.HTML(code, "notfound.html", gin.H{
		"siteTitle": s.Core.Cfg().Site.SiteTitle,
	})
}

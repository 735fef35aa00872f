package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/leafshare/leafshare/app/core"
)

// HttpSrv HTTP服务结构
type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}

type PageRequest struct {
	Page     uint64 `json:"page" form:"page" binding:"required,gte=1"`
	PageSize uint64 `json:"pagesize" form:"pagesize" binding:"required,lte=50"`
}

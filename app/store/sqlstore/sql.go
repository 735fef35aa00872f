package sqlstore

import "embed"

// CreateTableFiles 按文件名顺序执行的建表脚本
//
//go:embed *.sql
var CreateTableFiles embed.FS

package types

import "fmt"

type TableName string

func (s TableName) Name() string {
	return fmt.Sprintf("%s%s", TABLE_PREFIX, s)
}

const TABLE_PREFIX = "leaf_"

const (
	TABLE_CONTENT          = TableName("content")
	TABLE_ACCESS_TOKEN     = TableName("access_token")
	TABLE_USER             = TableName("user")
	TABLE_USER_GLOBAL_ROLE = TableName("user_global_role")
)

package srv

import (
	"net/http"

	"github.com/mikespook/gorbac/v2"

	"github.com/leafshare/leafshare/pkg/errors"
	"github.com/leafshare/leafshare/pkg/i18n"
	"github.com/leafshare/leafshare/pkg/types"
)

const (
	// 定义权限ID
	PermissionChief    = "chief"
	PermissionModerate = "moderate"
	PermissionMember   = "member"
)

func SetupRBACSrv() *RBACSrv {
	rbac := gorbac.New()

	pChief := gorbac.NewStdPermission(PermissionChief)
	pModerate := gorbac.NewStdPermission(PermissionModerate)
	pMember := gorbac.NewStdPermission(PermissionMember)

	roleChief := gorbac.NewStdRole(types.GlobalRoleChief)
	roleChief.Assign(pChief)

	roleAdmin := gorbac.NewStdRole(types.GlobalRoleAdmin)
	roleAdmin.Assign(pModerate)

	roleMember := gorbac.NewStdRole(types.GlobalRoleMember)
	roleMember.Assign(pMember)

	rbac.Add(roleChief)
	rbac.Add(roleAdmin)
	rbac.Add(roleMember)

	// 设置角色继承关系
	rbac.SetParent(types.GlobalRoleAdmin, types.GlobalRoleMember)
	rbac.SetParent(types.GlobalRoleChief, types.GlobalRoleAdmin)

	return &RBACSrv{
		rbac: rbac,
	}
}

type RBACSrv struct {
	rbac *gorbac.RBAC
}

// CheckPermission 检查角色是否有某权限，未知角色一律返回 false
func (a *RBACSrv) CheckPermission(roleID, permissionID string) bool {
	return a.rbac.IsGranted(roleID, gorbac.NewStdPermission(permissionID), nil)
}

type RoleObject interface {
	GetUser() (string, error)
}

type LazyRoler struct {
	f      func() (string, error)
	userID string
}

func (s *LazyRoler) GetUser() (string, error) {
	if s.userID == "" {
		var err error
		if s.userID, err = s.f(); err != nil {
			return "", err
		}
	}
	return s.userID, nil
}

func NewRolerWithLazyload(f func() (string, error)) *LazyRoler {
	return &LazyRoler{
		f: f,
	}
}

type RoleUser interface {
	GetRole() string
	GetUser() string
}

// Check 拥有 permissionID 的角色直接放行，否则要求资源属于当前用户
func (a *RBACSrv) Check(user RoleUser, obj RoleObject, permissionID string) *errors.CustomizedError {
	if !a.CheckPermission(user.GetRole(), permissionID) {
		resourceUser, err := obj.GetUser()
		if err != nil {
			return errors.Trace("RBACSrv.Check", err)
		}
		if user.GetUser() != resourceUser {
			return errors.New("RBACSrv.Check.Owner", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
		}
	}
	return nil
}

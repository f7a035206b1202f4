package models

import (
	"strings"

	"github.com/wikicore-next/internal/constants"
	"github.com/wikicore-next/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaults 初始化查找表与默认管理员
func InitDefaults(adminEmail, adminPassword string) error {
	if err := seedLookups(); err != nil {
		return err
	}
	return initDefaultAdmin(adminEmail, adminPassword)
}

// seedLookups 幂等写入权限/格式/类型/模式查找表
func seedLookups() error {
	perms := []Permission{
		{Name: "Read", Constant: constants.PermissionRead},
		{Name: "Write", Constant: constants.PermissionWrite},
		{Name: "Comment", Constant: constants.PermissionComment},
		{Name: "Create Post", Constant: constants.PermissionCreate, UserPermission: true},
	}
	for _, p := range perms {
		if err := DB.Where(Permission{Constant: p.Constant}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}

	formats := []Format{
		{Name: "Wiki", Constant: constants.FormatWiki},
		{Name: "Wiki HTML", Constant: constants.FormatWikiHTML},
		{Name: "Wiki Code", Constant: constants.FormatWikiCode},
		{Name: "HTML", Constant: constants.FormatHTML},
		{Name: "Code", Constant: constants.FormatCode},
		{Name: "Text", Constant: constants.FormatText},
		{Name: "Markdown", Constant: constants.FormatMarkdown},
	}
	for _, f := range formats {
		if err := DB.Where(Format{Constant: f.Constant}).FirstOrCreate(&f).Error; err != nil {
			return err
		}
	}

	types := []Type{
		{Name: "Document", Constant: constants.TypeDocument},
		{Name: "App", Constant: constants.TypeApp},
	}
	for _, t := range types {
		if err := DB.Where(Type{Constant: t.Constant}).FirstOrCreate(&t).Error; err != nil {
			return err
		}
	}

	modes := []Mode{
		{Name: "Default", Constant: constants.ModeDefault},
		{Name: "Raw", Constant: constants.ModeRaw},
	}
	for _, m := range modes {
		if err := DB.Where(Mode{Constant: m.Constant}).FirstOrCreate(&m).Error; err != nil {
			return err
		}
	}
	return nil
}

// initDefaultAdmin 初始化默认管理员账号
func initDefaultAdmin(email, password string) error {
	var count int64
	DB.Model(&User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	if email == "" {
		email = "admin@localhost"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Alias:        "Admin",
		IsAdmin:      true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", admin.Email)
		logger.Warnw("default_admin_password_change_required", "email", admin.Email)
	} else {
		logger.Warnw("default_admin_created", "email", admin.Email, "password_hidden", true)
	}
	return nil
}

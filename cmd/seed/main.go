package main

import (
	"os"

	"github.com/wikicore-next/internal/config"
	"github.com/wikicore-next/internal/logger"
	"github.com/wikicore-next/internal/models"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 权限常量与字典表
	if err := models.InitDefaults(os.Getenv("WC_DEFAULT_ADMIN_EMAIL"), os.Getenv("WC_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Fatalf("Failed to seed defaults: %v", err)
	}

	// 基础角色
	roles := []models.Role{
		{Name: "everyone"},
		{Name: "editors"},
		{Name: "staff"},
	}
	for i := range roles {
		if err := models.DB.Where(models.Role{Name: roles[i].Name}).FirstOrCreate(&roles[i]).Error; err != nil {
			stdLog.Printf("Failed to create role %s: %v", roles[i].Name, err)
		} else {
			stdLog.Printf("Role ready: %s (id=%d)", roles[i].Name, roles[i].ID)
		}
	}

	// 示例徽章
	badges := []models.Badge{
		{Name: "featured", Image: "/static/badges/featured.png"},
		{Name: "archived", Image: "/static/badges/archived.png"},
		{Name: "draft-heavy", Image: "/static/badges/draft.png"},
	}
	for i := range badges {
		if err := models.DB.Where(models.Badge{Name: badges[i].Name}).FirstOrCreate(&badges[i]).Error; err != nil {
			stdLog.Printf("Failed to create badge %s: %v", badges[i].Name, err)
		} else {
			stdLog.Printf("Badge ready: %s", badges[i].Name)
		}
	}

	// 常用标签
	tags := []string{"howto", "reference", "internal", "changelog"}
	for _, name := range tags {
		tag := models.Tag{Name: name}
		if err := models.DB.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			stdLog.Printf("Failed to create tag %s: %v", name, err)
		} else {
			stdLog.Printf("Tag ready: %s", name)
		}
	}

	// 管理员加入 staff 角色，便于角色授权演示
	var admin models.User
	if err := models.DB.Where("is_admin = ?", true).First(&admin).Error; err == nil {
		var staff models.Role
		if err := models.DB.Where("name = ?", "staff").First(&staff).Error; err == nil {
			link := models.UserRole{UserID: admin.ID, RoleID: staff.ID}
			if err := models.DB.Where(models.UserRole{UserID: admin.ID, RoleID: staff.ID}).FirstOrCreate(&link).Error; err != nil {
				stdLog.Printf("Failed to link admin to staff role: %v", err)
			} else {
				stdLog.Printf("Admin %s linked to role staff", admin.Email)
			}
		}
	}

	stdLog.Println("Seed completed")
}

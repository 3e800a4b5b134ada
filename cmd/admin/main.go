package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/database"
	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/pkg/logger"
	"github.com/greencity/econews_server/internal/repository"
)

var (
	dryRun     = flag.Bool("dry-run", false, "Only print what would change")
	migrate    = flag.Bool("migrate", false, "Run schema migration")
	promote    = flag.String("promote", "", "Email of the user whose role should change")
	role       = flag.String("role", model.RoleAdmin, "Role assigned by -promote")
	newsTitle  = flag.String("news-title", "", "Create an eco news item with this title")
	newsAuthor = flag.String("news-author", "", "Email of the eco news author")
	newsTags   = flag.String("news-tags", "", "Comma separated tags for the eco news item")
)

func main() {
	flag.Parse()
	_ = godotenv.Load()

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync()

	// 迁移由 -migrate 控制
	cfg.Database.AutoMigrate = false
	db, err := database.New(&cfg.Database, zl)
	if err != nil {
		zl.Fatal("failed to connect database", zap.Error(err))
	}

	ctx := context.Background()
	zl = zl.With(zap.Bool("dry_run", *dryRun))

	if *migrate {
		if *dryRun {
			zl.Info("would migrate", zap.Int("models", len(database.Models)))
		} else if err := db.AutoMigrate(database.Models...); err != nil {
			zl.Fatal("migration failed", zap.Error(err))
		} else {
			zl.Info("migration completed")
		}
	}

	users := repository.NewUserRepository(db)

	if *promote != "" {
		if err := promoteUser(ctx, users, *promote, *role, *dryRun, zl); err != nil {
			zl.Fatal("promote failed", zap.String("email", *promote), zap.Error(err))
		}
	}

	if *newsTitle != "" {
		articles := repository.NewArticleRepository(db)
		if err := createNews(ctx, users, articles, zl); err != nil {
			zl.Fatal("create eco news failed", zap.Error(err))
		}
	}
}

// promoteUser 修改角色，系统里第一个管理员只能通过这里产生
func promoteUser(ctx context.Context, users *repository.UserRepository, email, newRole string, dry bool, zl *zap.Logger) error {
	switch newRole {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
	default:
		return errors.New("unknown role " + newRole)
	}

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return err
	}

	if dry {
		zl.Info("would change role", zap.Int64("user_id", user.ID), zap.String("from", user.Role), zap.String("to", newRole))
		return nil
	}
	if err := users.UpdateRole(ctx, user.ID, newRole); err != nil {
		return err
	}
	zl.Info("role changed", zap.Int64("user_id", user.ID), zap.String("from", user.Role), zap.String("to", newRole))
	return nil
}

func createNews(ctx context.Context, users *repository.UserRepository, articles *repository.ArticleRepository, zl *zap.Logger) error {
	if *newsAuthor == "" {
		return errors.New("-news-author is required")
	}
	author, err := users.GetByEmail(ctx, *newsAuthor)
	if err != nil {
		return err
	}

	article := &model.Article{
		AuthorID: author.ID,
		Title:    *newsTitle,
		Tags:     splitTags(*newsTags),
	}
	if *dryRun {
		zl.Info("would create eco news", zap.String("title", article.Title), zap.Strings("tags", article.Tags))
		return nil
	}
	if err := articles.Create(ctx, article); err != nil {
		return err
	}
	zl.Info("eco news created", zap.Int64("id", article.ID), zap.String("title", article.Title))
	return nil
}

func splitTags(raw string) model.StringArray {
	tags := model.StringArray{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

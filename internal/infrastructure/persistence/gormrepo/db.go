package gormrepo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookapp/internal/infrastructure/config"
)

// NewDB 按配置的驱动创建数据库连接并迁移表结构
// mysql用于部署环境；sqlite用于本地开发和测试
func NewDB(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.LogSQL {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// sqlite单写者，多连接会出现database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	log.Info("数据库连接成功", zap.String("driver", cfg.Driver))

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

// autoMigrate 只增不删，生产环境的结构变更走迁移脚本
func autoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&BookModel{}, "Genres", &BookGenreModel{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&UserModel{},
		&UserRoleModel{},
		&ProfileModel{},
		&AuthorModel{},
		&GenreModel{},
		&BookModel{},
		&BookGenreModel{},
	)
}

// UserModel 用户表，删除时连同角色与资料硬删除
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string { return "users" }

// UserRoleModel 用户角色，(user_id, role)联合主键
type UserRoleModel struct {
	UserID    uint   `gorm:"primaryKey;autoIncrement:false"`
	Role      string `gorm:"primaryKey;size:20"`
	CreatedAt time.Time
}

func (UserRoleModel) TableName() string { return "user_roles" }

// ProfileModel 用户资料，与users一对一
type ProfileModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"uniqueIndex;not null"`
	Biodata   string `gorm:"type:text;comment:个人简介"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ProfileModel) TableName() string { return "profiles" }

// AuthorModel 作者表
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:255;not null;comment:作者名"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AuthorModel) TableName() string { return "authors" }

// GenreModel 分类表，名称不加唯一索引
type GenreModel struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"index;size:100;not null;comment:分类名"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (GenreModel) TableName() string { return "genres" }

// BookModel 图书表，价格用decimal(10,2)存储，NULL表示未定价
type BookModel struct {
	ID              uint                `gorm:"primaryKey"`
	Title           string              `gorm:"index;size:20;not null;comment:书名"`
	AuthorID        uint                `gorm:"index;not null;comment:作者ID"`
	Author          AuthorModel         `gorm:"foreignKey:AuthorID"`
	PublicationYear int                 `gorm:"index;not null;comment:出版年份"`
	Genres          []GenreModel        `gorm:"many2many:book_genres;joinForeignKey:BookID;joinReferences:GenreID"`
	Price           decimal.NullDecimal `gorm:"type:decimal(10,2);comment:价格"`
	DiscountedPrice decimal.NullDecimal `gorm:"type:decimal(10,2);comment:折后价"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (BookModel) TableName() string { return "books" }

// BookGenreModel 图书-分类关联表
type BookGenreModel struct {
	BookID  uint `gorm:"primaryKey;autoIncrement:false"`
	GenreID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (BookGenreModel) TableName() string { return "book_genres" }

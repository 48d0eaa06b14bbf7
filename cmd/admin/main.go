package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/database"
)

const usage = `usage:
  admin create-user --username NAME --email EMAIL [--password PASS] [--admin=true]
  admin seed --file portfolio.yaml

数据库连接读取 --database-url 或环境变量 DATABASE_URL。`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "create-user":
		err = runCreateUser(os.Args[2:])
	case "seed":
		err = runSeed(os.Args[2:])
	case "-h", "--help", "help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func runCreateUser(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	var (
		dbURL    = fs.String("database-url", "", "PostgreSQL 连接串（可选，默认读 DATABASE_URL）")
		username = fs.String("username", "", "用户名（必填）")
		email    = fs.String("email", "", "登录邮箱（必填）")
		password = fs.String("password", "", "初始密码（可选，留空则随机生成并只显示一次）")
		isAdmin  = fs.Bool("admin", true, "是否授予管理员权限")
	)
	_ = fs.Parse(args)

	u := strings.TrimSpace(*username)
	e := strings.TrimSpace(*email)
	if u == "" || e == "" {
		return errors.New("missing required flags: --username and --email")
	}

	db, err := openDatabase(*dbURL)
	if err != nil {
		return err
	}

	pass := *password
	generated := pass == ""
	if generated {
		if pass, err = generateRandomPassword(24); err != nil {
			return fmt.Errorf("generate password: %w", err)
		}
	}

	user, err := auth.NewUserStore(db).CreateUser(context.Background(), u, e, pass, *isAdmin)
	if errors.Is(err, auth.ErrUserExists) {
		return fmt.Errorf("user %q or email %q already exists", u, e)
	}
	if err != nil {
		return err
	}

	fmt.Printf("已创建账号 id=%d admin=%t\n", user.ID, user.IsAdmin)
	fmt.Printf("用户名: %s\n", user.Username)
	fmt.Printf("邮箱: %s\n", user.Email)
	if generated {
		fmt.Printf("初始密码: %s\n", pass)
		fmt.Printf("提示：该密码仅显示一次，请妥善保存。\n")
	}
	return nil
}

func runSeed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	var (
		dbURL = fs.String("database-url", "", "PostgreSQL 连接串（可选，默认读 DATABASE_URL）")
		file  = fs.String("file", "", "YAML 或 JSON 格式的作品集数据（必填）")
	)
	_ = fs.Parse(args)

	if strings.TrimSpace(*file) == "" {
		return errors.New("missing required flag: --file")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()

	data, err := content.ParseSeed(f)
	if err != nil {
		return err
	}

	db, err := openDatabase(*dbURL)
	if err != nil {
		return err
	}

	res, err := content.NewRepository(db).Seed(context.Background(), data)
	if err != nil {
		return err
	}
	fmt.Printf("seed 完成：singletons=%d skills=%d projects=%d achievements=%d\n",
		res.Singletons, res.Skills, res.Projects, res.Achievements)
	return nil
}

// openDatabase 只需要数据库配置，不走 config.Load，避免为运维脚本强制要求 JWT_SECRET。
func openDatabase(url string) (*gorm.DB, error) {
	if strings.TrimSpace(url) == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("database url is required (--database-url or DATABASE_URL)")
	}

	db, err := database.InitDatabase(config.DatabaseConfig{URL: url})
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// BuildSupabaseDSN SupabaseのURLとDBパスワードから接続文字列を組み立てる
// https://xxx.supabase.co -> host=db.xxx.supabase.co（ポート6543）
func BuildSupabaseDSN(supabaseURL, password string) (string, error) {
	if supabaseURL == "" {
		return "", fmt.Errorf("SUPABASE_URL環境変数が設定されていません")
	}
	if password == "" {
		return "", fmt.Errorf("SUPABASE_DB_PASSWORD環境変数が設定されていません")
	}

	parsed, err := url.Parse(supabaseURL)
	if err != nil || parsed.Host == "" {
		return "", fmt.Errorf("SUPABASE_URLの形式が不正です: %s", supabaseURL)
	}
	host := strings.TrimPrefix(parsed.Hostname(), "db.")

	return fmt.Sprintf(
		"host=db.%s port=6543 user=postgres password=%s dbname=postgres sslmode=require",
		host, quoteDSNValue(password),
	), nil
}

// quoteDSNValue lib/pq の key=value 形式の値として引用符で囲む
func quoteDSNValue(value string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}

// NewPostgreSQLClient 新しいPostgreSQLクライアントを作成
func NewPostgreSQLClient(ctx context.Context, dsn string) (*PostgreSQLClient, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQLの接続文字列が空です")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// 接続テスト
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck(ctx context.Context) error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.PingContext(ctx)
}

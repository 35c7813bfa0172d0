package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// FirestoreClient 公演コレクションを読むためのFirestoreクライアント
type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient credentialsFile が存在すればそれを、なければデフォルト認証を使う
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string, logger *logrus.Logger) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FIRESTORE_PROJECT_ID環境変数が設定されていません")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			logger.WithField("file", credentialsFile).Warn("⚠️ 認証ファイルが見つかりません。デフォルト認証を使用します")
		} else {
			logger.WithField("file", credentialsFile).Info("📄 認証ファイルを使用します")
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("Firestoreクライアントの初期化に失敗: %w", err)
	}
	logger.WithField("project", projectID).Info("✅ Firestoreクライアントを初期化しました")

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}

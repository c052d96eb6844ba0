// mealplan は週間メニューと買い物リスト管理APIサーバーのエントリーポイント。
//
// サブコマンド:
//
//	serve       APIサーバーを起動する（デフォルト）
//	migrate     データベースマイグレーションを実行する
//	healthcheck 起動中のサーバーの疎通確認を行う
package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/mealplan/internal/app"
)

func main() {
	if err := app.Run(os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

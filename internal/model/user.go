// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// パスワードはbcryptハッシュのみを保持し、平文は扱わない。
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Surname      string
	Role         Role
	CreatedAt    time.Time
}

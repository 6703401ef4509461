package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	token, err := manager.GenerateToken(42, "zhangsan", 3)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}

	claims, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("验证令牌失败: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "zhangsan" || claims.RoleID != 3 {
		t.Fatalf("声明内容错误: %+v", claims)
	}
	if claims.ID == "" {
		t.Fatal("令牌应携带jti，否则无法吊销")
	}

	// 每次签发的jti都不同
	another, err := manager.GenerateToken(42, "zhangsan", 3)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	otherClaims, err := manager.VerifyToken(another)
	if err != nil {
		t.Fatalf("验证令牌失败: %v", err)
	}
	if otherClaims.ID == claims.ID {
		t.Fatal("不同令牌的jti不应重复")
	}
}

func TestVerifyTokenWrongKey(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)
	other := NewJWTManager("other-secret", time.Hour)

	token, err := manager.GenerateToken(1, "zhangsan", 1)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	if _, err := other.VerifyToken(token); err == nil {
		t.Fatal("错误密钥签发的令牌应验证失败")
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute)

	token, err := manager.GenerateToken(1, "zhangsan", 1)
	if err != nil {
		t.Fatalf("生成令牌失败: %v", err)
	}
	if _, err := manager.VerifyToken(token); err == nil {
		t.Fatal("过期令牌应验证失败")
	}
}

func TestVerifyTokenGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour)

	if _, err := manager.VerifyToken("not-a-token"); err == nil {
		t.Fatal("非法令牌应验证失败")
	}
}

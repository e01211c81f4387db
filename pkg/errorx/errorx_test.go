package errorx

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsNotFoundMatchesByCode(t *testing.T) {
	base := errors.New("record not found")

	// 数据层包装后的错误按错误码识别
	wrapped := Wrap(base, CodeNotFound, "查询成员")
	if !IsNotFound(wrapped) {
		t.Fatal("wrapped CodeNotFound must be recognized")
	}

	// 多层包装仍可识别
	double := fmt.Errorf("lookup: %w", wrapped)
	if !IsNotFound(double) {
		t.Fatal("nested CodeNotFound must be recognized")
	}

	// 其他错误码不算未找到
	if IsNotFound(Wrap(base, CodeDBError, "查询成员")) {
		t.Fatal("CodeDBError must not be treated as not found")
	}
	// 未经数据层包装的裸错误不按消息字符串猜测
	if IsNotFound(base) {
		t.Fatal("bare error must not match by message text")
	}
	if IsNotFound(nil) {
		t.Fatal("nil is not an error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(CodeConflict, "冲突")); got != CodeConflict {
		t.Fatalf("expected %d, got %d", CodeConflict, got)
	}
	if got := GetCode(fmt.Errorf("wrap: %w", New(CodeNotFound, "无"))); got != CodeNotFound {
		t.Fatalf("expected %d, got %d", CodeNotFound, got)
	}
	// 非 CodeError 回落到服务繁忙
	if got := GetCode(errors.New("boom")); got != CodeServerBusy {
		t.Fatalf("expected %d, got %d", CodeServerBusy, got)
	}
}

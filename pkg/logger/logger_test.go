package logger

import (
	"testing"

	"github.com/Zerds-Global/Alumini-interaction/config"
)

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format=%q 初始化失败: %v", format, err)
		}
		if !l.Core().Enabled(-1) {
			t.Errorf("format=%q 应启用 debug 级别", format)
		}
	}
}

func TestNewLogger_LevelFilter(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if l.Core().Enabled(0) {
		t.Error("warn 级别下不应输出 info")
	}
}

func TestNewLogger_Invalid(t *testing.T) {
	cases := []config.LogConfig{
		{Level: "loud", Format: "json"},
		{Level: "info", Format: "xml"},
	}
	for _, c := range cases {
		if _, err := NewLogger(&c); err == nil {
			t.Errorf("%+v 应返回错误", c)
		}
	}
}

package timex

import (
	"testing"
	"time"
)

func TestTime_UnixMethods(t *testing.T) {
	// Create a fixed time
	// 创建一个固定时间
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tt := Time(now)

	// Test Unix()
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() = %v, want %v", tt.Unix(), now.Unix())
	}

	// Test UnixMilli()
	if tt.UnixMilli() != now.UnixMilli() {
		t.Errorf("UnixMilli() = %v, want %v", tt.UnixMilli(), now.UnixMilli())
	}

	// Test UnixMicro()
	if tt.UnixMicro() != now.UnixMicro() {
		t.Errorf("UnixMicro() = %v, want %v", tt.UnixMicro(), now.UnixMicro())
	}

	// Test UnixNano()
	if tt.UnixNano() != now.UnixNano() {
		t.Errorf("UnixNano() = %v, want %v", tt.UnixNano(), now.UnixNano())
	}

	// Verify it's not returning time.Now() by waiting a bit
	// 通过等待一会确认它不是返回 time.Now()
	time.Sleep(10 * time.Millisecond)
	if tt.Unix() != now.Unix() {
		t.Errorf("Unix() changed after sleep, it should be static. got %v, want %v", tt.Unix(), now.Unix())
	}
}

func TestTime_JSON(t *testing.T) {
	tt := Time(time.Date(2024, 3, 15, 8, 30, 0, 0, time.Local))
	data, err := tt.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `"2024-03-15 08:30:00"` {
		t.Errorf("MarshalJSON() = %s", data)
	}

	var back Time
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if back.Unix() != tt.Unix() {
		t.Errorf("UnmarshalJSON() = %v, want %v", back, tt)
	}

	zero, _ := Time{}.MarshalJSON()
	if string(zero) != `""` {
		t.Errorf("zero MarshalJSON() = %s", zero)
	}
}

func TestTime_Scan(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var tt Time
	if err := tt.Scan(now); err != nil || tt.Unix() != now.Unix() {
		t.Errorf("Scan(time.Time) = %v, %v", tt, err)
	}
	if err := tt.Scan("2024-01-01T12:00:00Z"); err != nil || tt.Unix() != now.Unix() {
		t.Errorf("Scan(string) = %v, %v", tt, err)
	}
	if err := tt.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
	if v, _ := (Time{}).Value(); v != nil {
		t.Errorf("zero Value() = %v, want nil", v)
	}
}

package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return body
}

func TestFail_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantLoc    string
	}{
		{"not found", pkgerrors.NotFound("groupUID", "group not found"), http.StatusBadRequest, "groupUID"},
		{"conflict", pkgerrors.Conflict("groupMember", "capacity reached"), http.StatusBadRequest, "groupMember"},
		{"validation", pkgerrors.Validation("minStudyHour", "invalid"), http.StatusBadRequest, "minStudyHour"},
		{"unauthorized", pkgerrors.Unauthorized("auth", "login required"), http.StatusUnauthorized, "auth"},
		{"forbidden", pkgerrors.Forbidden("auth", "verify email"), http.StatusForbidden, "auth"},
		{"transient", pkgerrors.Transient("storage unavailable", errors.New("timeout")), http.StatusServiceUnavailable, "server"},
		{"unknown", errors.New("raw failure"), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Fail(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态码 %d，实际 %d", tt.wantStatus, w.Code)
			}
			body := decode(t, w)
			loc, _ := body["location"].(string)
			if loc != tt.wantLoc {
				t.Errorf("期望 location=%q，实际 %q", tt.wantLoc, loc)
			}
			if body["msg"] == "" {
				t.Error("错误响应应包含 msg")
			}
			if len(c.Errors) != 1 {
				t.Error("Fail 应将错误挂到 gin.Context")
			}
		})
	}
}

func TestFail_UnknownKeepsRawMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Fail(c, errors.New("raw failure"))

	if got := decode(t, w)["msg"]; got != "raw failure" {
		t.Errorf("期望原始消息，实际 %v", got)
	}
}

func TestCreated_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Created(c, map[string]int64{"groupUID": 7})

	if w.Code != http.StatusCreated {
		t.Fatalf("期望 201，实际 %d", w.Code)
	}
	data, ok := decode(t, w)["data"].(map[string]interface{})
	if !ok || data["groupUID"] != float64(7) {
		t.Errorf("期望 data.groupUID=7，实际 %v", data)
	}
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是 JSON: %s", w.Body.String())
	}
	return body
}

func TestOK_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, gin.H{"id": "1"})

	body := decode(t, w)
	if w.Code != http.StatusOK || body["code"].(float64) != 0 || body["data"] == nil {
		t.Errorf("成功响应格式错误: %d %v", w.Code, body)
	}
}

func TestError_OmitsData(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, http.StatusConflict, 11003, "邮箱已被注册")

	body := decode(t, w)
	if w.Code != http.StatusConflict {
		t.Errorf("期望 409，实际 %d", w.Code)
	}
	if body["code"].(float64) != 11003 || body["message"] != "邮箱已被注册" {
		t.Errorf("错误响应内容错误: %v", body)
	}
	if _, ok := body["data"]; ok {
		t.Error("错误响应不应包含 data")
	}
}

func TestShortcuts_Status(t *testing.T) {
	cases := []struct {
		write func(c *gin.Context)
		want  int
	}{
		{func(c *gin.Context) { BadRequest(c, 10001, "参数校验失败") }, http.StatusBadRequest},
		{func(c *gin.Context) { Unauthorized(c, 10002, "未认证") }, http.StatusUnauthorized},
		{InternalError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tc.write(c)
		if w.Code != tc.want {
			t.Errorf("期望 %d，实际 %d", tc.want, w.Code)
		}
	}
}

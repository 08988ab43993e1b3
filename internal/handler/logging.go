package handler

import (
	"encoding/json"
	"log"

	"github.com/gin-gonic/gin"
)

// logError emits one structured error line per failed handler operation.
// Fields must not contain secrets; the request logger redacts bodies but
// this path bypasses it.
func logError(c *gin.Context, event string, err error, fields map[string]interface{}) {
	entry := map[string]interface{}{
		"event":  event,
		"error":  err.Error(),
		"method": c.Request.Method,
		"path":   c.Request.URL.Path,
	}
	if userID := c.GetString("userID"); userID != "" {
		entry["user_id"] = userID
	}
	for k, v := range fields {
		entry[k] = v
	}

	jsonBytes, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		log.Printf("event=%s error=%v", event, err)
		return
	}
	log.Println(string(jsonBytes))
}

package request

// ResolveApplicationRequest 审批入群申请请求
// 使用位置:
//   - handler/application_handler.go: ResolveApplicationHandler
type ResolveApplicationRequest struct {
	ApplicationUuid string `json:"application_uuid" binding:"required"`
	Decision        string `json:"decision" binding:"required,oneof=approve deny"`
}

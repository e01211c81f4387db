package respond

// ApplyRespond 入群申请结果
// 使用位置:
//   - internal/service/admission: RequestApplication
type ApplyRespond struct {
	AlreadyMember   bool   `json:"already_member"`   // 申请人已是成员，未创建申请
	ApplicationUuid string `json:"application_uuid"` // 待处理申请的 uuid（复用或新建）
}

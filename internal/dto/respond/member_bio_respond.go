package respond

// MemberBioRespond 成员简介查询结果
// 使用位置:
//   - internal/service/member: LookupMemberBio
type MemberBioRespond struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}

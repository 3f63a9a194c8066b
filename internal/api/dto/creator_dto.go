package dto

// CreatorApplyRequest 创作者申请
type CreatorApplyRequest struct {
	ApplicationType string  `json:"application_type" binding:"required,oneof=youtube email"`
	YoutubeHandle   *string `json:"youtube_handle" binding:"omitempty,max=255"`
	DisplayName     *string `json:"display_name" binding:"omitempty,max=255"`
}

// CreatorStatusData 创作者申请状态
type CreatorStatusData struct {
	Status    string `json:"status"`
	IsCreator bool   `json:"is_creator"`
}

// FeaturedCreator 推荐创作者
type FeaturedCreator struct {
	UserBrief
	CharacterCount int64              `json:"character_count"`
	Verifications  []VerificationInfo `json:"verifications"`
}

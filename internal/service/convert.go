package service

import (
	"charbit-go/internal/api/dto"
	"charbit-go/internal/model"
)

func toUserInfo(u *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:                       u.ID,
		Email:                    u.Email,
		FirstName:                u.FirstName,
		LastName:                 u.LastName,
		DisplayName:              u.DisplayName,
		CreatorName:              u.CreatorName,
		ProfileImageURL:          u.ProfileImageURL,
		Username:                 u.Username,
		YoutubeHandle:            u.YoutubeHandle,
		IsCreator:                u.IsCreator,
		CreatorApplicationStatus: u.CreatorApplicationStatus,
		Theme:                    u.Theme,
		UserRole:                 u.UserRole,
		CreatedAt:                u.CreatedAt,
	}
}

func toUserBrief(u *model.User) dto.UserBrief {
	return dto.UserBrief{
		ID:              u.ID,
		Username:        u.Username,
		DisplayName:     u.DisplayName,
		CreatorName:     u.CreatorName,
		ProfileImageURL: u.ProfileImageURL,
		IsCreator:       u.IsCreator,
	}
}

func toUserBriefs(users []model.User) []dto.UserBrief {
	list := make([]dto.UserBrief, 0, len(users))
	for i := range users {
		list = append(list, toUserBrief(&users[i]))
	}
	return list
}

func toCharacterInfo(c *model.Character) *dto.CharacterInfo {
	tags := []string(c.Tags)
	if tags == nil {
		tags = []string{}
	}
	info := &dto.CharacterInfo{
		ID:             c.ID,
		CreatorID:      c.CreatorID,
		Name:           c.Name,
		Nickname:       c.Nickname,
		Personality:    c.Personality,
		About:          c.About,
		AvatarURL:      c.AvatarURL,
		Visibility:     c.Visibility,
		Tags:           tags,
		LikesCount:     c.LikesCount,
		FavoritesCount: c.FavoritesCount,
		ViewsCount:     c.ViewsCount,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if c.Creator.ID != "" {
		creator := toUserBrief(&c.Creator)
		info.Creator = &creator
	}
	return info
}

func toCharacterInfos(list []model.Character) []dto.CharacterInfo {
	items := make([]dto.CharacterInfo, 0, len(list))
	for i := range list {
		items = append(items, *toCharacterInfo(&list[i]))
	}
	return items
}

func toVerificationInfos(list []model.SocialMediaVerification) []dto.VerificationInfo {
	items := make([]dto.VerificationInfo, 0, len(list))
	for _, v := range list {
		items = append(items, dto.VerificationInfo{
			Platform:         v.Platform,
			PlatformUsername: v.PlatformUsername,
			IsVerified:       v.IsVerified,
			VerifiedAt:       v.VerifiedAt,
		})
	}
	return items
}

func toMessageInfo(m *model.PrivateMessage) dto.MessageInfo {
	return dto.MessageInfo{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		IsRead:     m.IsRead,
		CreatedAt:  m.CreatedAt,
	}
}

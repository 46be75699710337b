package chat

// MemberStatus: статус пользователя в канале, как его отдаёт транспорт.
type MemberStatus string

const (
	StatusCreator       MemberStatus = "creator"
	StatusOwner         MemberStatus = "owner"
	StatusAdministrator MemberStatus = "administrator"
	StatusMember        MemberStatus = "member"
	StatusRestricted    MemberStatus = "restricted"
	StatusLeft          MemberStatus = "left"
	StatusKicked        MemberStatus = "kicked"
)

// Subscribed сообщает, засчитывается ли статус как подписка: участник, админ или владелец.
// Всё остальное, включая restricted, left, kicked и неизвестное, не засчитывается.
func (s MemberStatus) Subscribed() bool {
	switch s {
	case StatusMember, StatusAdministrator, StatusCreator, StatusOwner:
		return true
	}
	return false
}

// CanModerate: статус позволяет боту читать участников канала.
func (s MemberStatus) CanModerate() bool {
	return s == StatusAdministrator || s == StatusCreator || s == StatusOwner
}

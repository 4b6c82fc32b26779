package model

// Student 学生账号记录，不保存任何凭据，凭据只存在于 Identity。
// MySQL 下 username 列使用 utf8mb4_bin，唯一索引和查询都按字节比较，见 database.Migrate。
// swagger:model Student
type Student struct {
	UUIDBase
	Username   string `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Email      string `gorm:"size:255;not null;uniqueIndex" json:"email"`
	IdentityID string `gorm:"type:varchar(36);index" json:"identityId"`
}

func (Student) TableName() string {
	return "students"
}

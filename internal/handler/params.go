package handler

type LoginParams struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Next     string `form:"next"     query:"next"`
}

type ForgotPasswordParams struct {
	Email string `form:"email"`
}

type ResetPasswordParams struct {
	Email           string `form:"email"            query:"email"`
	Key             string `form:"key"              query:"key"`
	Password        string `form:"password"`
	PasswordConfirm string `form:"password_confirm"`
}

type PasswordStrengthParams struct {
	Password string `form:"password" json:"password"`
}

type AllowedParams struct {
	Module string `query:"module"`
	Action string `query:"action"`
}

type UserParams struct {
	UserID   int64  `param:"user_id"`
	Email    string `                form:"email"`
	Password string `                form:"password"`
	IsGod    bool   `                form:"is_god"`
}

type ModuleParams struct {
	Module string `param:"module"`
}

type ModuleSettingParams struct {
	Module string `param:"module"`
	Name   string `param:"name"`
	Value  string `               form:"value"`
}

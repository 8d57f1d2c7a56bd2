package models

type Setting struct {
	ID                int     `json:"id"`
	Name              string  `json:"name"`
	Company           string  `json:"company"`
	AdminEmail        string  `json:"admin_email"`
	MinWithdraw       float64 `json:"min_withdraw"`
	MaxWithdraw       float64 `json:"max_withdraw"`
	NetworkFeePercent float64 `json:"network_fee_percent"`
	Maintenance       bool    `json:"maintenance"`
	ClosedRegister    bool    `json:"closed_register"`
	SupportEmail      string  `json:"support_email"`
}

func (Setting) TableName() string {
	return "settings"
}

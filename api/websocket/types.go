package websocket

type ConnectParams struct {
	Token string `form:"token" binding:"required"` // jwt; browsers can't set headers on upgrade
}

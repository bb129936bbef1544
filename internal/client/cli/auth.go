package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"xianshiji/domain"
	"xianshiji/internal/client/forms"
	"xianshiji/internal/utils/logger"
)

func (a *App) register(ctx context.Context, _ []string) error {
	var f forms.RegisterForm
	var err error
	if f.Phone, err = a.ask("手机号 (可留空)", ""); err != nil {
		return err
	}
	if f.Email, err = a.ask("邮箱 (可留空)", ""); err != nil {
		return err
	}
	if f.Nickname, err = a.ask("昵称", ""); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("密码"); err != nil {
		return err
	}
	if f.Confirm, err = a.askPassword("确认密码"); err != nil {
		return err
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	user, err := a.api.Register(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "注册成功，%s，请使用 login 登录\n", user.Nickname)
	return nil
}

func (a *App) login(ctx context.Context, _ []string) error {
	var f forms.LoginForm
	var err error
	if f.Account, err = a.ask("手机号或邮箱", ""); err != nil {
		return err
	}
	if f.Password, err = a.askPassword("密码"); err != nil {
		return err
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	res, err := a.api.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := a.sessions.Save(ctx, res); err != nil {
		return err
	}

	a.clearSession()
	s, err := a.sessions.Load(ctx)
	if err != nil {
		return err
	}
	a.setSession(s)
	logger.Get().Info("signed in", zap.Uint("user_id", s.User.ID))
	fmt.Fprintf(a.out, "欢迎回来，%s\n", s.User.Nickname)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.sessions.Clear(ctx); err != nil {
		return err
	}
	a.clearSession()
	fmt.Fprintln(a.out, "已退出登录")
	return nil
}

func (a *App) me(_ context.Context, _ []string) error {
	u := a.session.User
	fmt.Fprintf(a.out, "ID:   %d\n", u.ID)
	fmt.Fprintf(a.out, "昵称: %s\n", u.Nickname)
	if u.Phone != "" {
		fmt.Fprintf(a.out, "手机: %s\n", u.Phone)
	}
	if u.Email != "" {
		fmt.Fprintf(a.out, "邮箱: %s\n", u.Email)
	}
	if u.AvatarURL != "" {
		fmt.Fprintf(a.out, "头像: %s\n", u.AvatarURL)
	}
	return nil
}

func (a *App) profile(ctx context.Context, _ []string) error {
	u := a.session.User
	req := domain.UpdateUserRequest{ID: u.ID}
	var err error
	if req.Nickname, err = a.ask("昵称", u.Nickname); err != nil {
		return err
	}
	if req.Phone, err = a.ask("手机号", u.Phone); err != nil {
		return err
	}
	if req.Email, err = a.ask("邮箱", u.Email); err != nil {
		return err
	}
	if req.OldPassword, err = a.askPassword("当前密码 (不修改密码请留空)"); err != nil {
		return err
	}
	if req.OldPassword != "" {
		if req.NewPassword, err = a.askPassword("新密码"); err != nil {
			return err
		}
	}
	if req.Nickname == "" {
		return &forms.ValidationError{Field: "nickname", Message: "请输入昵称"}
	}

	updated, err := a.api.UpdateUser(ctx, req)
	if err != nil {
		return err
	}
	if err := a.sessions.UpdateUser(ctx, updated); err != nil {
		return err
	}
	a.session.User = updated
	fmt.Fprintln(a.out, "个人信息已更新")
	return nil
}

func (a *App) avatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErr("缺少图片路径")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("打开图片失败: %w", err)
	}
	defer f.Close()

	res, err := a.api.UploadAvatar(ctx, a.userID(), filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	user := a.session.User
	user.AvatarURL = res.AvatarURL
	if err := a.sessions.UpdateUser(ctx, user); err != nil {
		return err
	}
	a.session.User = user
	fmt.Fprintf(a.out, "头像已更新: %s\n", res.AvatarURL)
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"xianshiji/internal/client/forms"
)

func (a *App) family(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		return a.listFamilies(ctx)
	}

	value := strings.Join(args[1:], " ")
	switch args[0] {
	case "create":
		req, err := forms.CreateFamilyForm{FamilyName: value}.Request(a.userID())
		if err != nil {
			return err
		}
		fam, err := a.api.CreateFamily(ctx, req)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "已创建家庭 %s，邀请码: %s\n", fam.Name, fam.InviteCode)
		return nil
	case "join":
		req, err := forms.JoinFamilyForm{InviteCode: value}.Request(a.userID())
		if err != nil {
			return err
		}
		if err := a.api.JoinFamily(ctx, req); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "已加入家庭")
		return a.listFamilies(ctx)
	}
	return usageErr("未知选项 %q", args[0])
}

func (a *App) listFamilies(ctx context.Context) error {
	families, err := a.api.MyFamilies(ctx, a.userID())
	if err != nil {
		return err
	}
	if len(families) == 0 {
		fmt.Fprintln(a.out, "还没有加入任何家庭")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t名称\t邀请码\t角色")
	for _, f := range families {
		role := "成员"
		if f.Role == "OWNER" {
			role = "创建者"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", f.ID, f.Name, f.InviteCode, role)
	}
	return tw.Flush()
}

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"xianshiji/domain"
	"xianshiji/internal/client/apiclient"
	"xianshiji/internal/utils/logger"
	"xianshiji/pkg/inventory"
)

// refresh fetches the full inventory. When the backend is unreachable the
// saved snapshot is used instead, reclassified for today.
func (a *App) refresh(ctx context.Context) error {
	items, err := a.api.ListFoodItems(ctx, a.userID(), domain.FoodItemQuery{})
	if err != nil {
		if !apiclient.IsNetwork(err) {
			return err
		}
		snap, serr := a.sessions.LoadSnapshot(ctx, a.userID(), a.classifier)
		if serr != nil {
			return err
		}
		a.items, a.loaded, a.offline = snap.Items, true, true
		fmt.Fprintf(a.out, "网络错误，显示 %s 保存的离线数据\n", snap.FetchedAt.Local().Format("2006-01-02 15:04"))
		return nil
	}

	a.items, a.loaded, a.offline = items, true, false
	if err := a.sessions.SaveSnapshot(ctx, a.userID(), items, a.now()); err != nil {
		logger.Get().Warn("failed to save inventory snapshot", zap.Error(err))
	}
	return nil
}

func (a *App) ensureLoaded(ctx context.Context) error {
	if a.loaded {
		return nil
	}
	return a.refresh(ctx)
}

func (a *App) list(ctx context.Context, _ []string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	a.renderInventory()
	return nil
}

func (a *App) tab(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErr("缺少状态")
	}
	t, err := inventory.ParseTab(args[0])
	if err != nil {
		return usageErr("未知状态 %q", args[0])
	}
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	a.filter.SelectTab(t)
	a.renderInventory()
	return nil
}

func (a *App) category(ctx context.Context, args []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	a.filter.SelectCategory(strings.Join(args, " "))
	a.renderInventory()
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	a.filter.SetSearch(strings.Join(args, " "))
	a.renderInventory()
	return nil
}

func (a *App) reset(ctx context.Context, _ []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	a.filter.Reset()
	a.renderInventory()
	return nil
}

func (a *App) categories(ctx context.Context, _ []string) error {
	if err := a.ensureLoaded(ctx); err != nil {
		return err
	}
	cats := inventory.Categories(a.items)
	if len(cats) == 0 {
		fmt.Fprintln(a.out, "暂无分类")
		return nil
	}
	fmt.Fprintln(a.out, strings.Join(cats, "  "))
	return nil
}

func tabLabel(t inventory.Tab) string {
	if st, ok := t.Status(); ok {
		return st.Label()
	}
	return "全部"
}

func (a *App) renderInventory() {
	f := a.filter.Filter()
	header := "[" + tabLabel(f.Tab) + "]"
	if f.Category != "" {
		header += " 分类: " + f.Category
	}
	if strings.TrimSpace(f.Search) != "" {
		header += " 搜索: " + f.Search
	}
	fmt.Fprintln(a.out, header)

	visible := a.filter.Apply(a.items)
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "暂无数据")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t名称\t分类\t数量\t过期日期\t状态")
	for _, item := range visible {
		category := item.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s%s\t%s\t%s\n",
			item.ID, item.Name, category,
			formatQuantity(item.Quantity), item.DisplayUnit(),
			item.ExpiryDate, item.Status.Label())
	}
	_ = tw.Flush()
}

func (a *App) stats(ctx context.Context, _ []string) error {
	st, err := a.api.FoodStatistics(ctx, a.userID())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "食材总数\t%d\n", st.TotalItems)
	fmt.Fprintf(tw, "分类数\t%d\n", st.TotalCategories)
	fmt.Fprintf(tw, "临期\t%d\n", st.NearExpiry)
	fmt.Fprintf(tw, "过期\t%d\n", st.Expired)
	fmt.Fprintf(tw, "库存不足\t%d\n", st.Insufficient)
	return tw.Flush()
}

// messages is the alerts view: near expiry, expired and low stock, each
// section omitted when empty.
func (a *App) messages(ctx context.Context, _ []string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	alerts := inventory.ComposeAlerts(a.items)
	if alerts.Empty() {
		fmt.Fprintln(a.out, "暂无提醒，库存状态良好")
		return nil
	}

	today := a.classifier.Today()
	for _, sec := range alerts.Sections() {
		fmt.Fprintf(a.out, "%s (%d)\n", sec.Title, len(sec.Items))
		for _, item := range sec.Items {
			fmt.Fprintf(a.out, "  %s  %s\n", item.Name, alertDetail(item, today))
		}
	}
	return nil
}

func alertDetail(item inventory.Item, today inventory.Date) string {
	switch item.Status {
	case inventory.StatusNearExpiry:
		days := today.DaysUntil(item.ExpiryDate)
		if days <= 0 {
			return "今天过期"
		}
		return fmt.Sprintf("还有 %d 天过期 (%s)", days, item.ExpiryDate)
	case inventory.StatusExpired:
		return fmt.Sprintf("已过期 %d 天 (%s)", item.ExpiryDate.DaysUntil(today), item.ExpiryDate)
	case inventory.StatusInsufficient:
		minQuantity := "-"
		if item.MinQuantity != nil {
			minQuantity = formatQuantity(*item.MinQuantity)
		}
		return fmt.Sprintf("剩余 %s%s，最低 %s%s",
			formatQuantity(item.Quantity), item.DisplayUnit(), minQuantity, item.DisplayUnit())
	}
	return ""
}

func (a *App) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageErr("缺少文件名")
	}
	raw, err := a.api.ExportFoodItems(ctx, a.userID())
	if err != nil {
		return err
	}
	if err := os.WriteFile(args[0], raw, 0o644); err != nil {
		return fmt.Errorf("写入文件失败: %w", err)
	}
	fmt.Fprintf(a.out, "已导出到 %s\n", args[0])
	return nil
}

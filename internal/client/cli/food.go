package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"xianshiji/domain"
	"xianshiji/internal/client/barcode"
	"xianshiji/internal/client/forms"
	"xianshiji/pkg/inventory"
)

// fillFoodForm prompts for every field, offering the values in f as
// defaults.
func (a *App) fillFoodForm(f forms.FoodForm) (forms.FoodForm, error) {
	fields := []struct {
		label string
		value *string
	}{
		{"名称", &f.Name},
		{"分类", &f.Category},
		{"数量", &f.Quantity},
		{"单位 (默认 " + inventory.DefaultUnit + ")", &f.Unit},
		{"最低库存 (可留空)", &f.MinQuantity},
		{"购买日期 YYYY-MM-DD (可留空)", &f.PurchaseDate},
		{"过期日期 YYYY-MM-DD", &f.ExpiryDate},
		{"图片链接 (可留空)", &f.ImageURL},
	}
	for _, field := range fields {
		v, err := a.ask(field.label, *field.value)
		if err != nil {
			return f, err
		}
		*field.value = v
	}
	return f, nil
}

func formFromItem(item inventory.Item) forms.FoodForm {
	f := forms.FoodForm{
		Name:       item.Name,
		Category:   item.Category,
		Quantity:   formatQuantity(item.Quantity),
		Unit:       item.Unit,
		ExpiryDate: item.ExpiryDate.String(),
		ImageURL:   item.ImageURL,
	}
	if item.MinQuantity != nil {
		f.MinQuantity = formatQuantity(*item.MinQuantity)
	}
	if item.PurchaseDate != nil {
		f.PurchaseDate = item.PurchaseDate.String()
	}
	return f
}

func (a *App) add(ctx context.Context, _ []string) error {
	return a.addFromForm(ctx, forms.FoodForm{})
}

func (a *App) addFromForm(ctx context.Context, prefill forms.FoodForm) error {
	f, err := a.fillFoodForm(prefill)
	if err != nil {
		return err
	}
	req, err := f.Request(a.userID())
	if err != nil {
		return err
	}
	item, err := a.api.AddFoodItem(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "已添加 %s (%s)\n", item.Name, item.Status.Label())
	return a.list(ctx, nil)
}

// scan looks a barcode up and opens the add form prefilled with the
// product. A failed lookup goes back to the barcode prompt; an empty
// barcode leaves.
func (a *App) scan(ctx context.Context, args []string) error {
	code := ""
	if len(args) > 0 {
		code = args[0]
	}
	for {
		if code == "" {
			var err error
			if code, err = a.ask("条码 (留空返回)", ""); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			if code == "" {
				return nil
			}
		}

		product, err := a.products.Lookup(ctx, code)
		if err != nil {
			if errors.Is(err, barcode.ErrProductNotFound) {
				fmt.Fprintf(a.out, "未找到该商品信息 (%s)，请重新扫描或使用 add 手动添加\n", code)
			} else {
				fmt.Fprintf(a.out, "查询商品信息失败: %s\n", describe(err))
			}
			code = ""
			continue
		}

		fmt.Fprintf(a.out, "找到商品: %s\n", product.Name)
		return a.addFromForm(ctx, forms.FoodForm{
			Name:     product.Name,
			Category: product.Category,
			ImageURL: product.ImageURL,
		})
	}
}

func (a *App) findItem(ctx context.Context, id uint) (inventory.Item, error) {
	if err := a.ensureLoaded(ctx); err != nil {
		return inventory.Item{}, err
	}
	for _, item := range a.items {
		if item.ID == id {
			return item, nil
		}
	}
	return inventory.Item{}, domain.ErrFoodItemNotFound
}

func (a *App) edit(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	item, err := a.findItem(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "直接回车保留原值，输入 %s 清空\n", clearValue)
	f, err := a.fillFoodForm(formFromItem(item))
	if err != nil {
		return err
	}
	req, err := f.Request(a.userID())
	if err != nil {
		return err
	}
	updated, err := a.api.UpdateFoodItem(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "已更新 %s (%s)\n", updated.Name, updated.Status.Label())
	return a.list(ctx, nil)
}

func (a *App) quantity(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if len(args) < 2 {
		return usageErr("缺少数量")
	}
	q, err := forms.ParseQuantity(args[1])
	if err != nil {
		return err
	}

	if err := a.api.UpdateQuantity(ctx, id, domain.UpdateQuantityRequest{UserID: a.userID(), Quantity: &q}); err != nil {
		return err
	}
	if q <= 0 {
		fmt.Fprintln(a.out, "已用完，已从库存中移除")
	} else {
		fmt.Fprintln(a.out, "数量已更新")
	}
	return a.list(ctx, nil)
}

// minQuantity is the food settings flow. Without a value on the command
// line it shows the current minimum and asks for one; a blank answer clears
// it.
func (a *App) minQuantity(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}

	var input string
	if len(args) > 1 {
		input = args[1]
	} else {
		item, err := a.findItem(ctx, id)
		if err != nil {
			return err
		}
		current := "未设置"
		if item.MinQuantity != nil {
			current = formatQuantity(*item.MinQuantity) + item.DisplayUnit()
		}
		fmt.Fprintf(a.out, "%s 当前最低库存: %s\n", item.Name, current)
		if input, err = a.ask("新的最低库存 (留空清除)", ""); err != nil {
			return err
		}
	}

	mq, err := forms.ParseMinQuantity(input)
	if err != nil {
		return err
	}
	if err := a.api.UpdateMinQuantity(ctx, id, domain.UpdateMinQuantityRequest{UserID: a.userID(), MinQuantity: mq}); err != nil {
		return err
	}
	if mq == nil {
		fmt.Fprintln(a.out, "已清除最低库存")
	} else {
		fmt.Fprintf(a.out, "最低库存已设为 %s\n", formatQuantity(*mq))
	}
	return a.list(ctx, nil)
}

func (a *App) remove(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	item, err := a.findItem(ctx, id)
	if err != nil {
		return err
	}
	ok, err := a.confirm(fmt.Sprintf("确认删除 %s?", item.Name))
	if err != nil || !ok {
		return err
	}

	if err := a.api.DeleteFoodItem(ctx, id, a.userID()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "已删除 %s\n", item.Name)
	return a.list(ctx, nil)
}

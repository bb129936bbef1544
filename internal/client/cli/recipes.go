package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"xianshiji/internal/client/forms"
	"xianshiji/pkg/inventory"
)

func (a *App) recipes(ctx context.Context, args []string) error {
	var f inventory.RecipeFilter
	if len(args) > 0 {
		value := strings.TrimSpace(strings.Join(args[1:], " "))
		if value == "" {
			return usageErr("缺少筛选内容")
		}
		// cuisine and search are exclusive, like category and search on the inventory
		switch args[0] {
		case "cuisine":
			f.CuisineType = value
		case "search":
			f.Search = value
		default:
			return usageErr("未知选项 %q", args[0])
		}
	}

	all, err := a.api.Recipes(ctx)
	if err != nil {
		return err
	}
	visible := inventory.FilterRecipes(all, f)
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "暂无菜谱")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t名称\t菜系\t难度\t时间\t份量")
	for _, r := range visible {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d 分钟\t%d 人份\n",
			r.ID, r.Name, r.CuisineType, r.Difficulty, r.PrepTime+r.CookTime, r.Servings)
	}
	return tw.Flush()
}

func (a *App) recipe(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	r, err := a.api.RecipeDetail(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s  [%s]\n", r.Name, r.CuisineType)
	fmt.Fprintf(a.out, "难度: %s  准备: %d 分钟  烹饪: %d 分钟  份量: %d 人份\n",
		r.Difficulty, r.PrepTime, r.CookTime, r.Servings)
	if r.Description != "" {
		fmt.Fprintln(a.out, r.Description)
	}
	if len(r.Ingredients) > 0 {
		fmt.Fprintln(a.out, "食材:")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(a.out, "  - %s %s\n", ing.IngredientName, ing.Amount)
		}
	}
	if r.Steps != "" {
		fmt.Fprintln(a.out, "步骤:")
		for _, step := range strings.Split(r.Steps, "\n") {
			if step = strings.TrimSpace(step); step != "" {
				fmt.Fprintf(a.out, "  %s\n", step)
			}
		}
	}
	return nil
}

// recipeAdd walks through the submission form. Steps and ingredients are
// read until an empty line.
func (a *App) recipeAdd(ctx context.Context, _ []string) error {
	var f forms.RecipeForm
	fields := []struct {
		label string
		value *string
	}{
		{"菜谱名称", &f.Name},
		{"菜系 (如: 川菜、粤菜)", &f.CuisineType},
		{"准备时间 (分钟)", &f.PrepTime},
		{"烹饪时间 (分钟)", &f.CookTime},
		{"难度 (如: 简单、中等、困难)", &f.Difficulty},
		{"份量 (人份)", &f.Servings},
		{"菜谱描述", &f.Description},
		{"图片链接 (可留空)", &f.ImageURL},
	}
	for _, field := range fields {
		v, err := a.ask(field.label, "")
		if err != nil {
			return err
		}
		*field.value = v
	}

	fmt.Fprintln(a.out, "烹饪步骤, 每行一个, 空行结束:")
	var steps []string
	for {
		line, err := a.readLine()
		if err != nil {
			return err
		}
		if line == "" {
			break
		}
		steps = append(steps, line)
	}
	f.Steps = strings.Join(steps, "\n")

	for i := 1; ; i++ {
		name, err := a.ask(fmt.Sprintf("第%d个配料 食材名称 (留空结束)", i), "")
		if err != nil {
			return err
		}
		if name == "" {
			break
		}
		amount, err := a.ask("用量 (如: 100克)", "")
		if err != nil {
			return err
		}
		f.Ingredients = append(f.Ingredients, forms.IngredientForm{Name: name, Amount: amount})
	}

	req, err := f.Request()
	if err != nil {
		return err
	}
	r, err := a.api.AddRecipe(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "菜谱已添加: %s (ID %d)\n", r.Name, r.ID)
	return nil
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"xianshiji/domain"
	"xianshiji/internal/client/barcode"
	"xianshiji/internal/client/session"
	"xianshiji/internal/utils/logger"
	"xianshiji/pkg/inventory"
)

// API is the part of apiclient.Client the commands use.
type API interface {
	SetToken(token string)

	Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
	Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
	UpdateUser(ctx context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error)
	UploadAvatar(ctx context.Context, userID uint, fileName string, content io.Reader) (domain.AvatarResponse, error)

	CreateFamily(ctx context.Context, req domain.CreateFamilyRequest) (domain.FamilyResponse, error)
	JoinFamily(ctx context.Context, req domain.JoinFamilyRequest) error
	MyFamilies(ctx context.Context, userID uint) ([]domain.FamilyResponse, error)

	ListFoodItems(ctx context.Context, userID uint, query domain.FoodItemQuery) ([]inventory.Item, error)
	FoodStatistics(ctx context.Context, userID uint) (inventory.Statistics, error)
	AddFoodItem(ctx context.Context, req domain.FoodItemRequest) (inventory.Item, error)
	UpdateFoodItem(ctx context.Context, id uint, req domain.FoodItemRequest) (inventory.Item, error)
	UpdateQuantity(ctx context.Context, id uint, req domain.UpdateQuantityRequest) error
	UpdateMinQuantity(ctx context.Context, id uint, req domain.UpdateMinQuantityRequest) error
	DeleteFoodItem(ctx context.Context, id, userID uint) error
	ExportFoodItems(ctx context.Context, userID uint) ([]byte, error)

	Recipes(ctx context.Context) ([]inventory.Recipe, error)
	RecipeDetail(ctx context.Context, id uint) (inventory.Recipe, error)
	AddRecipe(ctx context.Context, req domain.RecipeRequest) (inventory.Recipe, error)
}

type ProductLookup interface {
	Lookup(ctx context.Context, code string) (barcode.Product, error)
}

type App struct {
	api        API
	products   ProductLookup
	sessions   *session.Manager
	classifier inventory.Classifier
	filter     *inventory.FilterState

	in  *bufio.Reader
	out io.Writer
	fd  int
	now func() time.Time

	session  session.Session
	signedIn bool
	items    []inventory.Item
	loaded   bool
	offline  bool
}

func NewApp(api API, products ProductLookup, sessions *session.Manager, classifier inventory.Classifier, in io.Reader, out io.Writer) *App {
	return &App{
		api:        api,
		products:   products,
		sessions:   sessions,
		classifier: classifier,
		filter:     inventory.NewFilterState(),
		in:         bufio.NewReader(in),
		out:        out,
		fd:         -1,
		now:        time.Now,
	}
}

// WithTerminal makes password prompts read from fd without echo when it is
// a terminal.
func (a *App) WithTerminal(fd int) *App {
	a.fd = fd
	return a
}

// Run restores a saved session and serves commands until exit, end of
// input or ctx is done.
func (a *App) Run(ctx context.Context) error {
	s, err := a.sessions.Load(ctx)
	switch {
	case err == nil:
		a.setSession(s)
	case errors.Is(err, session.ErrNotSignedIn):
	default:
		return err
	}

	fmt.Fprintln(a.out, "鲜食记 (输入 help 查看命令)")
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(a.out, "xsj%s> ", a.status())

		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}

		fields := strings.Fields(line)
		if len(fields) > 0 && a.exec(ctx, fields[0], fields[1:]) {
			return nil
		}
		if err != nil {
			return nil
		}
	}
}

func (a *App) status() string {
	if !a.signedIn {
		return ""
	}
	s := a.session.User.Nickname
	if a.offline {
		s += " 离线"
	}
	return fmt.Sprintf(" (%s)", s)
}

func (a *App) setSession(s session.Session) {
	a.session = s
	a.signedIn = true
	a.api.SetToken(s.Token)
}

func (a *App) clearSession() {
	a.session = session.Session{}
	a.signedIn = false
	a.api.SetToken("")
	a.items = nil
	a.loaded = false
	a.offline = false
	a.filter.Reset()
}

func (a *App) userID() uint {
	return a.session.User.ID
}

type command struct {
	name  string
	usage string
	help  string
	auth  bool
	run   func(a *App, ctx context.Context, args []string) error
}

var commands = []command{
	{name: "register", help: "注册账号", run: (*App).register},
	{name: "login", help: "登录", run: (*App).login},
	{name: "logout", help: "退出登录", auth: true, run: (*App).logout},
	{name: "me", help: "查看个人信息", auth: true, run: (*App).me},
	{name: "profile", help: "修改个人信息或密码", auth: true, run: (*App).profile},
	{name: "avatar", usage: "avatar <图片路径>", help: "上传头像", auth: true, run: (*App).avatar},

	{name: "list", help: "刷新并显示库存", auth: true, run: (*App).list},
	{name: "tab", usage: "tab <ALL|NEAR_EXPIRY|INSUFFICIENT|EXPIRED>", help: "按状态筛选", auth: true, run: (*App).tab},
	{name: "category", usage: "category <分类>", help: "按分类筛选 (清除搜索)", auth: true, run: (*App).category},
	{name: "search", usage: "search <关键词>", help: "按名称或分类搜索 (清除分类)", auth: true, run: (*App).search},
	{name: "reset", help: "清除所有筛选", auth: true, run: (*App).reset},
	{name: "categories", help: "列出所有分类", auth: true, run: (*App).categories},
	{name: "stats", help: "库存统计", auth: true, run: (*App).stats},
	{name: "messages", help: "临期、过期和库存不足提醒", auth: true, run: (*App).messages},
	{name: "export", usage: "export <文件.xlsx>", help: "导出库存表格", auth: true, run: (*App).export},

	{name: "add", help: "添加食材", auth: true, run: (*App).add},
	{name: "scan", usage: "scan [条码]", help: "扫码添加食材", auth: true, run: (*App).scan},
	{name: "edit", usage: "edit <ID>", help: "编辑食材", auth: true, run: (*App).edit},
	{name: "qty", usage: "qty <ID> <数量>", help: "修改数量 (0 表示用完)", auth: true, run: (*App).quantity},
	{name: "min", usage: "min <ID> [最低库存]", help: "设置或清除最低库存", auth: true, run: (*App).minQuantity},
	{name: "delete", usage: "delete <ID>", help: "删除食材", auth: true, run: (*App).remove},

	{name: "recipes", usage: "recipes [cuisine <菜系> | search <关键词>]", help: "浏览菜谱", auth: true, run: (*App).recipes},
	{name: "recipe", usage: "recipe <ID>", help: "查看菜谱详情", auth: true, run: (*App).recipe},
	{name: "recipe-add", help: "添加菜谱", auth: true, run: (*App).recipeAdd},

	{name: "family", usage: "family [create <名称> | join <邀请码>]", help: "家庭管理", auth: true, run: (*App).family},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// exec runs one command and reports whether the loop should stop.
func (a *App) exec(ctx context.Context, name string, args []string) bool {
	switch name {
	case "exit", "quit":
		fmt.Fprintln(a.out, "再见!")
		return true
	case "help":
		a.printHelp()
		return false
	}

	cmd, ok := findCommand(name)
	if !ok {
		fmt.Fprintf(a.out, "未知命令: %s\n", name)
		return false
	}
	if cmd.auth && !a.signedIn {
		fmt.Fprintln(a.out, "请先登录 (login)")
		return false
	}
	if err := cmd.run(a, ctx, args); err != nil {
		a.report(name, cmd, err)
	}
	return false
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, "可用命令:")
	for _, c := range commands {
		if c.auth && !a.signedIn {
			continue
		}
		usage := c.usage
		if usage == "" {
			usage = c.name
		}
		fmt.Fprintf(a.out, "  %-44s %s\n", usage, c.help)
	}
	fmt.Fprintf(a.out, "  %-44s %s\n", "exit", "退出")
}

func (a *App) report(name string, cmd command, err error) {
	logger.Get().Warn("command failed", zap.String("command", name), zap.Error(err))
	fmt.Fprintf(a.out, "错误: %s\n", describe(err))
	if errors.Is(err, errUsage) && cmd.usage != "" {
		fmt.Fprintf(a.out, "用法: %s\n", cmd.usage)
	}
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xianshiji/domain"
	"xianshiji/internal/client/apiclient"
	"xianshiji/internal/client/barcode"
	"xianshiji/internal/client/session"
	"xianshiji/internal/client/store"
	"xianshiji/pkg/inventory"
)

type fakeAPI struct {
	token string
	calls []string

	loginRes  domain.LoginResponse
	loginErr  error
	items     []inventory.Item
	listErr   error
	stats     inventory.Statistics
	recipes   []inventory.Recipe
	families  []domain.FamilyResponse
	exportRaw []byte

	added      []domain.FoodItemRequest
	updated    map[uint]domain.FoodItemRequest
	quantities map[uint]float64
	minQty     map[uint]*float64
	deleted    []uint
	joined     []domain.JoinFamilyRequest
	newRecipes []domain.RecipeRequest
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		updated:    map[uint]domain.FoodItemRequest{},
		quantities: map[uint]float64{},
		minQty:     map[uint]*float64{},
	}
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Login(_ context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	f.record("login:" + req.Account)
	return f.loginRes, f.loginErr
}

func (f *fakeAPI) Register(_ context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	f.record("register")
	return domain.UserResponse{ID: 9, Nickname: req.Nickname}, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, req domain.UpdateUserRequest) (domain.UserResponse, error) {
	f.record("update-user")
	return domain.UserResponse{ID: req.ID, Nickname: req.Nickname, Phone: req.Phone, Email: req.Email}, nil
}

func (f *fakeAPI) UploadAvatar(_ context.Context, _ uint, _ string, _ io.Reader) (domain.AvatarResponse, error) {
	f.record("avatar")
	return domain.AvatarResponse{AvatarURL: "https://cdn.test/a.png"}, nil
}

func (f *fakeAPI) CreateFamily(_ context.Context, req domain.CreateFamilyRequest) (domain.FamilyResponse, error) {
	f.record("create-family")
	return domain.FamilyResponse{ID: 1, Name: req.FamilyName, InviteCode: "AB12CD34", Role: "OWNER"}, nil
}

func (f *fakeAPI) JoinFamily(_ context.Context, req domain.JoinFamilyRequest) error {
	f.record("join-family")
	f.joined = append(f.joined, req)
	return nil
}

func (f *fakeAPI) MyFamilies(_ context.Context, _ uint) ([]domain.FamilyResponse, error) {
	f.record("my-families")
	return f.families, nil
}

func (f *fakeAPI) ListFoodItems(_ context.Context, _ uint, _ domain.FoodItemQuery) ([]inventory.Item, error) {
	f.record("list")
	return f.items, f.listErr
}

func (f *fakeAPI) FoodStatistics(_ context.Context, _ uint) (inventory.Statistics, error) {
	f.record("stats")
	return f.stats, nil
}

func (f *fakeAPI) AddFoodItem(_ context.Context, req domain.FoodItemRequest) (inventory.Item, error) {
	f.record("add")
	f.added = append(f.added, req)
	return inventory.Item{ID: 100, Name: req.Name, Status: inventory.StatusNormal}, nil
}

func (f *fakeAPI) UpdateFoodItem(_ context.Context, id uint, req domain.FoodItemRequest) (inventory.Item, error) {
	f.record("update")
	f.updated[id] = req
	return inventory.Item{ID: id, Name: req.Name, Status: inventory.StatusNormal}, nil
}

func (f *fakeAPI) UpdateQuantity(_ context.Context, id uint, req domain.UpdateQuantityRequest) error {
	f.record("quantity")
	f.quantities[id] = *req.Quantity
	return nil
}

func (f *fakeAPI) UpdateMinQuantity(_ context.Context, id uint, req domain.UpdateMinQuantityRequest) error {
	f.record("min-quantity")
	f.minQty[id] = req.MinQuantity
	return nil
}

func (f *fakeAPI) DeleteFoodItem(_ context.Context, id, _ uint) error {
	f.record("delete")
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ExportFoodItems(_ context.Context, _ uint) ([]byte, error) {
	f.record("export")
	return f.exportRaw, nil
}

func (f *fakeAPI) Recipes(_ context.Context) ([]inventory.Recipe, error) {
	f.record("recipes")
	return f.recipes, nil
}

func (f *fakeAPI) RecipeDetail(_ context.Context, id uint) (inventory.Recipe, error) {
	f.record("recipe")
	for _, r := range f.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return inventory.Recipe{}, &apiclient.BackendError{Status: 404, Message: "failed to get recipe: recipe not found"}
}

func (f *fakeAPI) AddRecipe(_ context.Context, req domain.RecipeRequest) (inventory.Recipe, error) {
	f.record("add-recipe")
	f.newRecipes = append(f.newRecipes, req)
	return inventory.Recipe{ID: 31, Name: req.Recipe.Name}, nil
}

type fakeLookup struct {
	products map[string]barcode.Product
	codes    []string
}

func (f *fakeLookup) Lookup(_ context.Context, code string) (barcode.Product, error) {
	f.codes = append(f.codes, code)
	p, ok := f.products[code]
	if !ok {
		return barcode.Product{}, barcode.ErrProductNotFound
	}
	return p, nil
}

var testToday = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func fixedClassifier() inventory.Classifier {
	return inventory.Classifier{NearExpiryDays: 3, Now: func() time.Time { return testToday }}
}

type harness struct {
	api      *fakeAPI
	lookup   *fakeLookup
	sessions *session.Manager
	out      *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := store.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	return &harness{
		api:      newFakeAPI(),
		lookup:   &fakeLookup{products: map[string]barcode.Product{}},
		sessions: session.NewManager(st),
		out:      &bytes.Buffer{},
	}
}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sessions.Save(context.Background(), domain.LoginResponse{
		User:  domain.UserResponse{ID: 7, Nickname: "小王"},
		Token: "tok",
	}))
}

func (h *harness) run(t *testing.T, lines ...string) string {
	t.Helper()
	h.out.Reset()
	app := NewApp(h.api, h.lookup, h.sessions, fixedClassifier(), strings.NewReader(strings.Join(lines, "\n")+"\n"), h.out)
	app.now = func() time.Time { return testToday }
	require.NoError(t, app.Run(context.Background()))
	return h.out.String()
}

func ptr(v float64) *float64 { return &v }

func sampleItems() []inventory.Item {
	return []inventory.Item{
		{ID: 1, Name: "牛奶", Category: "乳制品", Quantity: 1, Unit: "盒", ExpiryDate: inventory.MustParseDate("2024-05-12"), Status: inventory.StatusNearExpiry},
		{ID: 2, Name: "鸡蛋", Category: "蛋类", Quantity: 2, MinQuantity: ptr(6), ExpiryDate: inventory.MustParseDate("2024-06-01"), Status: inventory.StatusInsufficient},
		{ID: 3, Name: "酸奶", Category: "乳制品", Quantity: 3, ExpiryDate: inventory.MustParseDate("2024-05-01"), Status: inventory.StatusExpired},
		{ID: 4, Name: "苹果", Category: "水果", Quantity: 5, ExpiryDate: inventory.MustParseDate("2024-06-20"), Status: inventory.StatusNormal},
	}
}

func TestRun_RequiresLogin(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "list", "recipes", "recipe 1", "recipe-add", "bogus", "exit")
	assert.Equal(t, 4, strings.Count(out, "请先登录"))
	assert.Contains(t, out, "未知命令: bogus")
	assert.Contains(t, out, "再见!")
	assert.Empty(t, h.api.calls)
}

func TestRun_LoginSavesSession(t *testing.T) {
	h := newHarness(t)
	h.api.loginRes = domain.LoginResponse{User: domain.UserResponse{ID: 7, Nickname: "小王"}, Token: "tok"}

	out := h.run(t, "login", "13800000000", "secret")
	assert.Contains(t, out, "欢迎回来，小王")
	assert.Equal(t, "tok", h.api.token)

	s, err := h.sessions.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint(7), s.User.ID)
}

func TestRun_LoginBackendMessageShownVerbatim(t *testing.T) {
	h := newHarness(t)
	h.api.loginErr = &apiclient.BackendError{Status: 401, Message: "failed to login: account or password is incorrect"}

	out := h.run(t, "login", "a@b.cn", "wrong")
	assert.Contains(t, out, "错误: failed to login: account or password is incorrect")

	_, err := h.sessions.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNotSignedIn)
}

func TestRun_LoginValidationStopsBeforeRequest(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "login", "", "secret")
	assert.Contains(t, out, "请输入手机号或邮箱")
	assert.Empty(t, h.api.calls)
}

func TestRun_PasswordFromTerminal(t *testing.T) {
	origRead, origIsTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origIsTerm })
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }

	h := newHarness(t)
	h.api.loginRes = domain.LoginResponse{User: domain.UserResponse{ID: 7, Nickname: "小王"}, Token: "tok"}

	app := NewApp(h.api, h.lookup, h.sessions, fixedClassifier(), strings.NewReader("login\n13800000000\n"), h.out).WithTerminal(0)
	require.NoError(t, app.Run(context.Background()))
	assert.Contains(t, h.out.String(), "欢迎回来")
}

func TestRun_ListAndFilters(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	out := h.run(t, "list", "tab expired", "tab all", "category 乳制品", "search 蛋", "search 不存在", "reset")
	assert.Equal(t, []string{"list"}, h.api.calls)

	sections := strings.Split(out, "xsj (小王)> ")
	require.Len(t, sections, 9)

	assert.Contains(t, sections[1], "牛奶")
	assert.Contains(t, sections[1], "苹果")

	assert.Contains(t, sections[2], "[过期]")
	assert.Contains(t, sections[2], "酸奶")
	assert.NotContains(t, sections[2], "牛奶")

	assert.Contains(t, sections[4], "分类: 乳制品")
	assert.Contains(t, sections[4], "牛奶")
	assert.Contains(t, sections[4], "酸奶")
	assert.NotContains(t, sections[4], "鸡蛋")

	// search replaces the category
	assert.NotContains(t, sections[5], "分类:")
	assert.Contains(t, sections[5], "鸡蛋")
	assert.NotContains(t, sections[5], "牛奶")

	assert.Contains(t, sections[6], "暂无数据")
	assert.Contains(t, sections[7], "苹果")
}

func TestRun_OfflineUsesSnapshot(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	require.NoError(t, h.sessions.SaveSnapshot(context.Background(), 7, []inventory.Item{
		{ID: 1, Name: "牛奶", Quantity: 1, ExpiryDate: inventory.MustParseDate("2024-05-09"), Status: inventory.StatusNormal},
	}, testToday.Add(-48*time.Hour)))
	h.api.listErr = &apiclient.NetworkError{Op: "GET /food-items/user/7", Err: errors.New("connection refused")}

	out := h.run(t, "list")
	assert.Contains(t, out, "离线数据")
	assert.Contains(t, out, "过期")
	assert.Contains(t, out, "小王 离线")
}

func TestRun_NetworkErrorWithoutSnapshot(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.listErr = &apiclient.NetworkError{Op: "GET", Err: errors.New("refused")}

	out := h.run(t, "list")
	assert.Contains(t, out, "错误: 网络错误，请检查网络连接")
	assert.Equal(t, []string{"list"}, h.api.calls)
}

func TestRun_Messages(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	out := h.run(t, "messages")
	near := strings.Index(out, "临期提醒 (1)")
	expired := strings.Index(out, "过期提醒 (1)")
	low := strings.Index(out, "库存不足 (1)")
	require.True(t, near >= 0 && expired > near && low > expired, out)
	assert.Contains(t, out, "还有 2 天过期")
	assert.Contains(t, out, "已过期 9 天")
	assert.Contains(t, out, "剩余 2个，最低 6个")
	assert.NotContains(t, out, "苹果")
}

func TestRun_MessagesEmpty(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "messages")
	assert.Contains(t, out, "暂无提醒")
}

func TestRun_AddRefetches(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	h.run(t, "add", "牛奶", "乳制品", "2", "", "1", "", "2024-05-20", "")
	require.Len(t, h.api.added, 1)
	req := h.api.added[0]
	assert.Equal(t, uint(7), req.UserID)
	assert.Equal(t, "牛奶", req.Name)
	assert.Equal(t, 2.0, *req.Quantity)
	require.NotNil(t, req.MinQuantity)
	assert.Equal(t, 1.0, *req.MinQuantity)
	assert.Equal(t, "2024-05-20", req.ExpiryDate)
	assert.Equal(t, []string{"add", "list"}, h.api.calls)
}

func TestRun_AddInvalidFormMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "add", "牛奶", "", "两盒", "", "", "", "2024-05-20", "")
	assert.Contains(t, out, "数量必须是数字")
	assert.Empty(t, h.api.calls)
}

func TestRun_ScanRetriesAfterNotFound(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.lookup.products["690"] = barcode.Product{Barcode: "690", Name: "纯牛奶", Category: "乳制品"}

	out := h.run(t, "scan 111", "690", "", "", "1", "盒", "", "", "2024-05-20", "")
	assert.Contains(t, out, "未找到该商品信息 (111)")
	assert.Equal(t, []string{"111", "690"}, h.lookup.codes)
	require.Len(t, h.api.added, 1)
	assert.Equal(t, "纯牛奶", h.api.added[0].Name)
	assert.Equal(t, "乳制品", h.api.added[0].Category)
	assert.Equal(t, "盒", h.api.added[0].Unit)
}

func TestRun_ScanEmptyBarcodeLeaves(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	h.run(t, "scan", "")
	assert.Empty(t, h.lookup.codes)
	assert.Empty(t, h.api.added)
}

func TestRun_EditKeepsDefaults(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	h.run(t, "edit 2", "", "-", "12", "", "", "", "", "")
	req, ok := h.api.updated[2]
	require.True(t, ok)
	assert.Equal(t, "鸡蛋", req.Name)
	assert.Empty(t, req.Category)
	assert.Equal(t, 12.0, *req.Quantity)
	require.NotNil(t, req.MinQuantity)
	assert.Equal(t, 6.0, *req.MinQuantity)
	assert.Equal(t, "2024-06-01", req.ExpiryDate)
}

func TestRun_QuantityZeroRemoves(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "qty 3 0", "qty", "qty 3 abc")
	assert.Contains(t, out, "已用完，已从库存中移除")
	assert.Contains(t, out, "用法: qty <ID> <数量>")
	assert.Contains(t, out, "数量必须是数字")
	assert.Equal(t, 0.0, h.api.quantities[3])
	assert.Equal(t, []string{"quantity", "list"}, h.api.calls)
}

func TestRun_MinQuantitySettings(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	out := h.run(t, "min 1 2.5", "min 2", "", "min 1 -1")
	assert.Contains(t, out, "最低库存已设为 2.5")
	assert.Contains(t, out, "鸡蛋 当前最低库存: 6个")
	assert.Contains(t, out, "已清除最低库存")
	assert.Contains(t, out, "最低库存必须是大于等于0的数字")

	require.NotNil(t, h.api.minQty[1])
	assert.Equal(t, 2.5, *h.api.minQty[1])
	assert.Nil(t, h.api.minQty[2])
}

func TestRun_DeleteAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	h.run(t, "delete 4", "n", "delete 4", "y")
	assert.Equal(t, []uint{4}, h.api.deleted)
}

func TestRun_DeleteUnknownItem(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.items = sampleItems()

	out := h.run(t, "delete 99")
	assert.Contains(t, out, domain.ErrFoodItemNotFound.Error())
	assert.Empty(t, h.api.deleted)
}

func TestRun_Recipes(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.recipes = []inventory.Recipe{
		{ID: 1, Name: "麻婆豆腐", CuisineType: "川菜", Difficulty: "中等", PrepTime: 10, CookTime: 15, Servings: 2,
			Steps: "切豆腐\n炒肉末\n", Ingredients: []inventory.Ingredient{{IngredientName: "豆腐", Amount: "1块"}}},
		{ID: 2, Name: "白切鸡", CuisineType: "粤菜"},
	}

	out := h.run(t, "recipes cuisine 川菜", "recipes search 鸡", "recipes search 无", "recipe 1", "recipe 5")
	sections := strings.Split(out, "xsj (小王)> ")
	require.Len(t, sections, 7)
	assert.Contains(t, sections[1], "麻婆豆腐")
	assert.NotContains(t, sections[1], "白切鸡")
	assert.Contains(t, sections[2], "白切鸡")
	assert.Contains(t, sections[3], "暂无菜谱")
	assert.Contains(t, sections[4], "豆腐 1块")
	assert.Contains(t, sections[4], "炒肉末")
	assert.Contains(t, sections[5], "recipe not found")
}

func TestRun_RecipeAdd(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "recipe-add",
		"番茄炒蛋", "家常菜", "5", "10", "简单", "2", "快手菜", "",
		"打蛋", "炒番茄", "",
		"番茄", "2个", "鸡蛋", "3个", "")
	assert.Contains(t, out, "菜谱已添加: 番茄炒蛋 (ID 31)")
	assert.Equal(t, []string{"add-recipe"}, h.api.calls)

	require.Len(t, h.api.newRecipes, 1)
	req := h.api.newRecipes[0]
	assert.Equal(t, "家常菜", req.Recipe.CuisineType)
	assert.Equal(t, 10, req.Recipe.CookTime)
	assert.Equal(t, "打蛋\n炒番茄", req.Recipe.Steps)
	assert.Equal(t, []domain.IngredientRequest{
		{IngredientName: "番茄", Amount: "2个"},
		{IngredientName: "鸡蛋", Amount: "3个"},
	}, req.Ingredients)
}

func TestRun_RecipeAddInvalidFormMakesNoRequest(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "recipe-add",
		"番茄炒蛋", "家常菜", "五分钟", "10", "简单", "2", "快手菜", "",
		"打蛋", "",
		"番茄", "2个", "")
	assert.Contains(t, out, "准备时间必须是数字")
	assert.Empty(t, h.api.calls)

	out = h.run(t, "recipe-add",
		"番茄炒蛋", "家常菜", "5", "10", "简单", "2", "快手菜", "",
		"打蛋", "",
		"番茄", "", "")
	assert.Contains(t, out, "第1个配料的用量不能为空")
	assert.Empty(t, h.api.calls)
}

func TestRun_Family(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.api.families = []domain.FamilyResponse{{ID: 1, Name: "王家", InviteCode: "AB12CD34", Role: "OWNER"}}

	out := h.run(t, "family create 王家", "family join ab12cd34", "family")
	assert.Contains(t, out, "邀请码: AB12CD34")
	assert.Contains(t, out, "创建者")
	require.Len(t, h.api.joined, 1)
	assert.Equal(t, "AB12CD34", h.api.joined[0].InviteCode)
	assert.Equal(t, uint(7), h.api.joined[0].UserID)
}

func TestRun_LogoutClearsSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	out := h.run(t, "logout", "list")
	assert.Contains(t, out, "已退出登录")
	assert.Contains(t, out, "请先登录")
	assert.Empty(t, h.api.token)

	_, err := h.sessions.Load(context.Background())
	assert.ErrorIs(t, err, session.ErrNotSignedIn)
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t)

	out := h.run(t, "help")
	assert.Contains(t, out, "login")
	assert.NotContains(t, out, "messages")

	h.signIn(t)
	out = h.run(t, "help")
	assert.Contains(t, out, "messages")
}

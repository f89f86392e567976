package selector

// Logical names used by the edit pipeline. Keep these in sync with the
// defaultElements table below.
const (
	FirstProductItem  = "FIRST_PRODUCT_ITEM"
	ProductGroupMenu  = "PRODUCT_GROUP"
	ProductViewNoGrp  = "PRODUCT_VIEW_NOGROUP"
	SelectAllCheckbox = "SELECT_ALL_CHECKBOX"
	BulkAssignButton  = "BULK_ASSIGN_BUTTON"

	TabBasic     = "PRODUCT_TAB_BASIC"
	TabOption    = "PRODUCT_TAB_OPTION"
	TabPrice     = "PRODUCT_TAB_PRICE"
	TabKeyword   = "PRODUCT_TAB_KEYWORD"
	TabThumbnail = "PRODUCT_TAB_THUMBNAIL"
	TabDetail    = "PRODUCT_TAB_DETAIL"
	TabUpload    = "PRODUCT_TAB_UPLOAD"

	MemoModalOpen     = "MEMO_MODAL_OPEN"
	MemoModalCheckbox = "MEMO_MODAL_CHECKBOX"
	MemoModalTextarea = "MEMO_MODAL_TEXTAREA"
	MemoModalSave     = "MEMO_MODAL_SAVEBUTTON"

	HTMLSourceOpen     = "PRODUCT_HTMLSOURCE_OPEN"
	HTMLSourceTextarea = "PRODUCT_HTMLSOURCE_TEXTAREA"
	HTMLSourceSave     = "PRODUCT_HTMLSOURCE_SAVE"

	InfoDisclosure   = "PRODUCT_INFO_DISCLOSURE"
	UploadEditInput2 = "PRODUCT_UPLOADEDIT_2ndINPUT"
	NameEditTextarea = "PRODUCT_NAMEEDIT_TEXTAREA"
	PriceDiscount    = "PRODUCT_PRICE_DISCOUNTRATE"
	CopyButton       = "PRODUCT_COPY_BUTTON"
	OptionAIButton   = "PRODUCT_OPTION_AI"
	OptionNumberBtn  = "PRODUCT_OPTION_NUMBER"
	DeleteButton     = "PRODUCT_DELETE_BUTTON"

	DetailBulkEditOpen = "DETAIL_BULKEDIT_OPEN"
)

// tabActive matches the selected state of the ant tab at the given node key.
func tabActive(nodeKey string) string {
	return "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='" + nodeKey + "']//div[@role='tab' and @aria-selected='true']"
}

var defaultElements = []Element{
	{
		Name:     FirstProductItem,
		Locator:  "//div[contains(@class, 'sc-gwZKzw') and contains(@class, 'sc-etlCFv')][1]",
		Kind:     KindXPath,
		Coords:   Point{X: 700, Y: 660},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     ProductGroupMenu,
		Locator:  "//span[contains(@class, 'ant-menu-title-content')][contains(., '그룹 상품')]",
		Kind:     KindXPath,
		Coords:   Point{X: 156, Y: 292},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     ProductViewNoGrp,
		Locator:  "//button[@role='switch' and contains(@class, 'ant-switch')]",
		Kind:     KindXPath,
		Coords:   Point{X: 480, Y: 445},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     SelectAllCheckbox,
		Locator:  "//div[contains(@class, 'ant-table-selection')]//input[@type='checkbox']",
		Kind:     KindXPath,
		Coords:   Point{X: 365, Y: 610},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     BulkAssignButton,
		Locator:  "//button[.//span[contains(text(), '그룹 지정')]]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},

	// Edit-modal tabs. Node keys follow the modal's tab strip order.
	{
		Name:            TabBasic,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='0']//div[@role='tab']/span[text()='상품명 / 카테고리']",
		Kind:            KindXPath,
		Coords:          Point{X: 400, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("0"),
	},
	{
		Name:            TabOption,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='1']//div[@role='tab']/span[text()='옵션']",
		Kind:            KindXPath,
		Coords:          Point{X: 550, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("1"),
	},
	{
		Name:            TabPrice,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='2']//div[@role='tab']/span[text()='가격']",
		Kind:            KindXPath,
		Coords:          Point{X: 650, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("2"),
	},
	{
		Name:            TabKeyword,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='3']//div[@role='tab']/span[text()='키워드']",
		Kind:            KindXPath,
		Coords:          Point{X: 750, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("3"),
	},
	{
		Name:            TabThumbnail,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='4']//div[@role='tab']/span[text()='썸네일']",
		Kind:            KindXPath,
		Coords:          Point{X: 850, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("4"),
	},
	{
		Name:            TabDetail,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='5']//div[@role='tab']/span[text()='상세페이지']",
		Kind:            KindXPath,
		Coords:          Point{X: 960, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("5"),
	},
	{
		Name:            TabUpload,
		Locator:         "//div[contains(@class, 'ant-tabs-nav-list')]/div[@data-node-key='6']//div[@role='tab']/span[text()='업로드']",
		Kind:            KindXPath,
		Coords:          Point{X: 1070, Y: 120},
		Fallback:        []Method{MethodDOM, MethodCoordinates},
		ActiveIndicator: tabActive("6"),
	},

	// Memo modal.
	{
		Name:     MemoModalOpen,
		Locator:  "//button[contains(@class, 'ant-float-btn')][.//span[contains(@class, 'anticon-file-text')]]",
		Kind:     KindXPath,
		Coords:   Point{X: 1837, Y: 268},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     MemoModalCheckbox,
		Locator:  "//label[contains(@class, 'ant-checkbox-wrapper')]/span[contains(text(), '상품 목록에 메모 내용 노출하기')]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},
	{
		Name:     MemoModalTextarea,
		Locator:  "//textarea[contains(@placeholder, '상품에 대한 메모')]",
		Kind:     KindXPath,
		Coords:   Point{X: 960, Y: 500},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     MemoModalSave,
		Locator:  "//button[contains(@class, 'ant-btn-primary')]/span[contains(text(), '저장 후 닫기')]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},

	// Detail-page HTML source editor.
	{
		Name:     HTMLSourceOpen,
		Locator:  "//button[contains(@class, 'ck-button')][.//span[contains(text(), 'HTML 삽입')]]",
		Kind:     KindXPath,
		Coords:   Point{X: 1400, Y: 300},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     HTMLSourceTextarea,
		Locator:  "//textarea[contains(@class, 'raw-html-embed__source')]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},
	{
		Name:     HTMLSourceSave,
		Locator:  "//button[contains(@class, 'raw-html-embed__save-button')]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},

	// Upload tab / product info notice.
	{
		Name:     InfoDisclosure,
		Locator:  "//div[@class='ant-collapse-header'][.//span[contains(@class, 'CharacterTitle85') and text()='상품정보제공고시']]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},
	{
		Name:     UploadEditInput2,
		Locator:  "(//span[contains(@class, 'CharacterTitle85')])[2]/following-sibling::input",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},

	// Name, price, copy, options.
	{
		Name:     NameEditTextarea,
		Locator:  "//input[contains(@class, 'ant-input') and @type='text' and not(@readonly)]",
		Kind:     KindXPath,
		Coords:   Point{X: 700, Y: 200},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     PriceDiscount,
		Locator:  "//input[@role='spinbutton']",
		Kind:     KindXPath,
		Coords:   Point{X: 660, Y: 545},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     CopyButton,
		Locator:  "//button[@type='button' and contains(@class, 'ant-btn-default')][.//span[contains(@class, 'anticon-copy')] and .//span[text()='상품 복사']]",
		Kind:     KindXPath,
		Coords:   Point{X: 1650, Y: 1030},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     OptionAIButton,
		Locator:  "//button[.//span[contains(text(), 'AI 옵션명 다듬기')]]",
		Kind:     KindXPath,
		Coords:   Point{X: 520, Y: 268},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     OptionNumberBtn,
		Locator:  "//button[.//span[text()='1-99']]",
		Kind:     KindXPath,
		Coords:   Point{X: 620, Y: 268},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
	{
		Name:     DeleteButton,
		Locator:  "//button[contains(@class, 'ant-btn-dangerous')][.//span[text()='삭제']]",
		Kind:     KindXPath,
		Fallback: []Method{MethodDOM},
	},

	// Detail-image bulk edit drawer opener.
	{
		Name:     DetailBulkEditOpen,
		Locator:  "//button[.//span[contains(text(), '일괄 편집')]]",
		Kind:     KindXPath,
		Coords:   Point{X: 1300, Y: 220},
		Fallback: []Method{MethodDOM, MethodCoordinates},
	},
}

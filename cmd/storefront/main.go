package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"kickshop/config"
	"kickshop/internal/clients"
	"kickshop/internal/domain"
	"kickshop/internal/notify"
	"kickshop/internal/storage"
	"kickshop/internal/usecase"
)

func main() {
	logger := setupLogger("info")

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s' in config, using default 'info'. Error: %v", cfg.LogLevel, err)
	} else {
		logger.SetLevel(logLevel)
	}
	logger.Info("Starting KickShop storefront...")

	ctx := context.Background()

	tokenStore := storage.NewFileTokenStore(cfg.TokenFile, logger)
	notifier := notify.NewLogNotifier(logger)

	// The API client reads the token through the session store at send
	// time; the session store talks through the API client. The indirection
	// below breaks that cycle.
	var session domain.SessionStore
	api := clients.NewShopHTTPClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, func() string {
		if session == nil {
			return ""
		}
		return session.Token()
	}, logger)

	session = usecase.NewSessionStore(api, tokenStore, notifier, logger)
	catalog := usecase.NewCatalogService(api, logger)
	view := usecase.NewCartView(api, logger)
	cart := usecase.NewCartEngine(api, view, notifier, logger)

	session.OnChange(func(event domain.SessionEvent) {
		switch event {
		case domain.SessionLogin:
			cart.FetchCart(ctx)
		case domain.SessionLogout:
			cart.Reset()
		}
	})

	if err := catalog.LoadCatalog(ctx); err != nil {
		logger.Errorf("Could not load the product catalog: %v", err)
		fmt.Println("The shop is unreachable right now. Check KICKSHOP_API_URL and try again.")
		os.Exit(1)
	}

	session.Hydrate(ctx)

	runShell(ctx, session, catalog, cart, view, logger)
}

func setupLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	logger.SetOutput(os.Stdout)

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level '%s', using default 'info'. Error: %v", level, err)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

func runShell(ctx context.Context, session domain.SessionStore, catalog domain.CatalogService, cart domain.CartEngine, view domain.CartView, logger *logrus.Logger) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to KickShop. Type 'help' for commands.")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		command, args := fields[0], fields[1:]

		switch command {
		case "help":
			printHelp()
		case "login":
			if len(args) != 2 {
				fmt.Println("usage: login <email> <password>")
				continue
			}
			session.Login(ctx, args[0], args[1])
		case "register":
			if len(args) < 3 {
				fmt.Println("usage: register <email> <password> <full name>")
				continue
			}
			session.Register(ctx, args[0], args[1], strings.Join(args[2:], " "))
		case "logout":
			session.Logout()
		case "whoami":
			if user := session.CurrentUser(); user != nil {
				fmt.Printf("%s <%s>\n", user.FullName, user.Email)
			} else {
				fmt.Println("Not logged in.")
			}
		case "products":
			printProducts(catalog.Visible())
		case "category":
			if len(args) != 1 {
				fmt.Printf("usage: category <%s|all>\n", joinCategories())
				continue
			}
			catalog.SetCategory(args[0])
			printProducts(catalog.Visible())
		case "brand":
			if len(args) != 1 {
				fmt.Println("usage: brand <name|all>")
				continue
			}
			catalog.SetBrand(args[0])
			printProducts(catalog.Visible())
		case "search":
			catalog.SetSearch(strings.Join(args, " "))
			printProducts(catalog.Visible())
		case "show":
			product, ok := pickProduct(catalog.Visible(), args)
			if !ok {
				continue
			}
			printProductDetails(product)
		case "add":
			if session.Token() == "" {
				fmt.Println("Please log in before adding to the cart.")
				continue
			}
			product, ok := pickProduct(catalog.Visible(), args)
			if !ok {
				continue
			}
			size, ok := pickSize(scanner, product)
			if !ok {
				fmt.Println("Cancelled.")
				continue
			}
			cart.AddToCart(ctx, product.ID, size, 1)
		case "cart":
			printCart(cart, view)
		case "remove":
			if session.Token() == "" {
				fmt.Println("Please log in first.")
				continue
			}
			items := cart.Items()
			index, ok := pickIndex(args, len(items))
			if !ok {
				continue
			}
			cart.RemoveFromCart(ctx, items[index].ID)
		case "quit", "exit":
			logger.Info("Storefront shutting down.")
			return
		default:
			fmt.Printf("Unknown command %q. Type 'help' for commands.\n", command)
		}
	}
}

func printHelp() {
	fmt.Println(`Commands:
  login <email> <password>            authenticate
  register <email> <password> <name>  create an account
  logout                              end the session
  whoami                              show the current user
  products                            list products matching the current filters
  category <name|all>                 filter by category
  brand <name|all>                    filter by brand
  search [term]                       filter by name/description (no term clears)
  show <n>                            product details
  add <n>                             pick a size and add to cart
  cart                                show the cart with totals
  remove <n>                          remove a cart line
  quit                                leave the shop`)
}

func printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("No products match the current filters.")
		return
	}
	for i, p := range products {
		fmt.Printf("%3d. %-35s %-12s %-10s %8.2f EUR\n", i+1, p.Name, p.Brand, p.Category, p.Price)
	}
}

func printProductDetails(p domain.Product) {
	fmt.Printf("%s (%s, %s)\n", p.Name, p.Brand, p.Category)
	fmt.Printf("  %s\n", p.Description)
	fmt.Printf("  Price: %.2f EUR\n", p.Price)
	fmt.Printf("  Sizes: %s\n", formatSizes(p.Sizes))
}

func printCart(cart domain.CartEngine, view domain.CartView) {
	lines := view.Lines()
	if len(lines) == 0 {
		fmt.Printf("Cart is empty (%d items tracked, state: %s).\n", cart.Count(), cart.State())
		return
	}
	for i, line := range lines {
		fmt.Printf("%3d. %-35s size %-5s x%d %8.2f EUR\n",
			i+1, line.Product.Name, formatSize(line.Item.Size), line.Item.Quantity,
			line.Product.Price*float64(line.Item.Quantity))
	}
	fmt.Printf("Total: %.2f EUR (%d items)\n", view.Total(), cart.Count())
}

// pickSize is the size-selection sub-flow: the picker is scoped to the
// product's own sizes and confirmation is refused until one of them is
// chosen. An empty line cancels.
func pickSize(scanner *bufio.Scanner, p domain.Product) (float64, bool) {
	fmt.Printf("Available sizes for %s: %s\n", p.Name, formatSizes(p.Sizes))
	for {
		fmt.Print("size> ")
		if !scanner.Scan() {
			return 0, false
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			return 0, false
		}
		size, err := strconv.ParseFloat(input, 64)
		if err != nil {
			fmt.Printf("%q is not a size. Pick one of: %s\n", input, formatSizes(p.Sizes))
			continue
		}
		for _, s := range p.Sizes {
			if s == size {
				return size, true
			}
		}
		fmt.Printf("Size %s is not available. Pick one of: %s\n", formatSize(size), formatSizes(p.Sizes))
	}
}

func pickProduct(products []domain.Product, args []string) (domain.Product, bool) {
	index, ok := pickIndex(args, len(products))
	if !ok {
		return domain.Product{}, false
	}
	return products[index], true
}

func pickIndex(args []string, length int) (int, bool) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <number>")
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > length {
		fmt.Printf("Pick a number between 1 and %d.\n", length)
		return 0, false
	}
	return n - 1, true
}

func joinCategories() string {
	names := make([]string, 0, len(domain.KnownCategories()))
	for _, c := range domain.KnownCategories() {
		names = append(names, string(c))
	}
	return strings.Join(names, "|")
}

func formatSizes(sizes []float64) string {
	parts := make([]string, 0, len(sizes))
	for _, s := range sizes {
		parts = append(parts, formatSize(s))
	}
	return strings.Join(parts, ", ")
}

func formatSize(size float64) string {
	return strconv.FormatFloat(size, 'f', -1, 64)
}

